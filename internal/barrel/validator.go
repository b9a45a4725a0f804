package barrel

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/debarrel/debarrel/internal/diagnostic"
	"github.com/debarrel/debarrel/internal/jsparse"
)

// Validate walks a parsed module's top-level statements and builds a
// Descriptor, or returns E_INVALID_BARREL_FILE on the first
// unsupported form (spec §4.5).
func Validate(path string, tree *sitter.Tree, content []byte) (*Descriptor, error) {
	reExports := make([]ReExport, 0)
	for _, node := range jsparse.TopLevelStatements(tree) {
		if node.Type() != "export_statement" {
			return nil, diagnostic.NewInvalidBarrelFile(location(path, node), "barrel files may only contain export statements, found %q", node.Type())
		}

		entries, err := validateExportStatement(path, node, content)
		if err != nil {
			return nil, err
		}
		reExports = append(reExports, entries...)
	}
	return Build(path, reExports), nil
}

func validateExportStatement(path string, node *sitter.Node, content []byte) ([]ReExport, error) {
	if node.ChildByFieldName("value") != nil {
		return nil, diagnostic.NewInvalidBarrelFile(location(path, node), "default exports are not permitted in barrel files")
	}

	if ns := jsparse.FirstNamedChildOfType(node, "namespace_export"); ns != nil {
		return nil, diagnostic.NewInvalidBarrelFile(location(path, node), "namespace re-exports (export * as ns) are not permitted in barrel files")
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		return nil, diagnostic.NewInvalidBarrelFile(location(path, node), "local declarations may not be exported from barrel files")
	}

	sourceNode := node.ChildByFieldName("source")
	clause := node.ChildByFieldName("export_clause")
	if clause == nil {
		clause = jsparse.FirstNamedChildOfType(node, "export_clause")
	}

	if clause == nil {
		if sourceNode != nil {
			return nil, diagnostic.NewInvalidBarrelFile(location(path, node), "wildcard re-exports (export * from) are not permitted in barrel files")
		}
		return nil, diagnostic.NewInvalidBarrelFile(location(path, node), "unsupported export statement")
	}

	if sourceNode == nil {
		return nil, diagnostic.NewInvalidBarrelFile(location(path, node), "re-exports must name a source module")
	}

	source, ok := jsparse.ExtractStringLiteral(sourceNode, content)
	if !ok {
		return nil, diagnostic.NewInvalidBarrelFile(location(path, node), "unable to read re-export source")
	}

	typeOnly := isTypeOnlyStatement(node, content)

	return validateExportClause(clause, content, source, typeOnly, node), nil
}

func validateExportClause(clause *sitter.Node, content []byte, source string, statementTypeOnly bool, statement *sitter.Node) []ReExport {
	entries := make([]ReExport, 0, clause.NamedChildCount())
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		specifier := clause.NamedChild(i)
		if specifier.Type() != "export_specifier" {
			continue
		}

		nameNode := specifier.ChildByFieldName("name")
		if nameNode == nil {
			nameNode = jsparse.FirstNamedChildOfType(specifier, "identifier", "property_identifier")
		}
		aliasNode := specifier.ChildByFieldName("alias")
		if aliasNode == nil {
			aliasNode = nameNode
		}

		originalName := jsparse.NodeText(nameNode, content)
		exportedName := jsparse.NodeText(aliasNode, content)
		if exportedName == "" {
			exportedName = originalName
		}
		if originalName == "" {
			continue
		}

		entries = append(entries, ReExport{
			ExportedName:    exportedName,
			Source:          source,
			OriginalName:    originalName,
			IsDefaultSource: originalName == "default",
			TypeOnly:        statementTypeOnly || isTypeOnlySpecifier(specifier, content),
			Line:            int(statement.StartPoint().Row) + 1,
			Column:          int(statement.StartPoint().Column) + 1,
		})
	}
	return entries
}

// isTypeOnlyStatement detects `export type { ... } from "..."`. The
// grammar doesn't expose a dedicated field for the `type` keyword on
// an export clause, so this matches the leading tokens of the
// statement's own source text — the same pragmatic approach the
// teacher's codemod takes for import-statement classification.
func isTypeOnlyStatement(node *sitter.Node, content []byte) bool {
	text := jsparse.NodeText(node, content)
	return strings.HasPrefix(strings.TrimSpace(text), "export type")
}

// isTypeOnlySpecifier detects `export { type X } from "..."`.
func isTypeOnlySpecifier(specifier *sitter.Node, content []byte) bool {
	text := strings.TrimSpace(jsparse.NodeText(specifier, content))
	return strings.HasPrefix(text, "type ")
}

func location(path string, node *sitter.Node) diagnostic.Location {
	return diagnostic.Location{
		File:   path,
		Line:   int(node.StartPoint().Row) + 1,
		Column: int(node.StartPoint().Column) + 1,
	}
}
