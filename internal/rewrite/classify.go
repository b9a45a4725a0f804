// Package rewrite implements the Import Rewriter (spec §4.7): given one
// host import statement and the barrel descriptor its source resolves
// to, it decides what the statement should become — one or more direct
// imports, or nothing at all — and produces the replacement text.
//
// Import-statement parsing is adapted from the teacher's own
// parseImportStatement/parseImportClause/parseNamedImports
// (internal/lang/js/scan.go), generalised from usage-counting to
// rewriting: every specifier keeps its source byte range so Splice can
// replace the statement in place.
package rewrite

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/debarrel/debarrel/internal/jsparse"
)

// SpecifierKind distinguishes the three import forms spec §4.7 governs.
type SpecifierKind string

const (
	SpecifierDefault   SpecifierKind = "default"
	SpecifierNamed     SpecifierKind = "named"
	SpecifierNamespace SpecifierKind = "namespace"
)

// Specifier is one bound local name of a host import statement.
type Specifier struct {
	Kind SpecifierKind
	// ExportedName is the name imported from the source module. For a
	// default specifier this is always "default" (spec §4.7 "Default
	// imports are treated as a named specifier whose exported name is
	// default").
	ExportedName string
	LocalName    string
	TypeOnly     bool
}

// Record is one parsed import statement.
type Record struct {
	Node       *sitter.Node
	Source     string
	Specifiers []Specifier
	// TypeOnly is true for `import type { ... } from "..."` — every
	// specifier is type-only regardless of its own annotation.
	TypeOnly bool
}

// Extract parses node (an import_statement) into a Record. It returns
// false if node does not name a string-literal source, which should
// never happen for a syntactically valid module but is treated as
// "nothing to rewrite" rather than a panic.
func Extract(node *sitter.Node, content []byte) (Record, bool) {
	sourceNode := node.ChildByFieldName("source")
	source, ok := jsparse.ExtractStringLiteral(sourceNode, content)
	if !ok {
		return Record{}, false
	}

	statementText := jsparse.NodeText(node, content)
	record := Record{
		Node:     node,
		Source:   source,
		TypeOnly: isTypeOnlyImportStatement(statementText),
	}

	clause := node.ChildByFieldName("import_clause")
	if clause == nil {
		clause = jsparse.FirstNamedChildOfType(node, "import_clause")
	}
	if clause == nil {
		// Bare `import "side-effect-module";` has no bound names.
		return record, true
	}

	record.Specifiers = extractClause(clause, content)
	return record, true
}

func extractClause(node *sitter.Node, content []byte) []Specifier {
	specifiers := make([]Specifier, 0, int(node.NamedChildCount()))
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier":
			local := jsparse.NodeText(child, content)
			specifiers = append(specifiers, Specifier{Kind: SpecifierDefault, ExportedName: "default", LocalName: local})
		case "namespace_import":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				nameNode = jsparse.FirstNamedChildOfType(child, "identifier")
			}
			local := jsparse.NodeText(nameNode, content)
			specifiers = append(specifiers, Specifier{Kind: SpecifierNamespace, ExportedName: "*", LocalName: local})
		case "named_imports":
			specifiers = append(specifiers, extractNamedImports(child, content)...)
		}
	}
	return specifiers
}

func extractNamedImports(node *sitter.Node, content []byte) []Specifier {
	specifiers := make([]Specifier, 0, int(node.NamedChildCount()))
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "import_specifier" {
			continue
		}

		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			nameNode = jsparse.FirstNamedChildOfType(child, "identifier", "property_identifier")
		}
		aliasNode := child.ChildByFieldName("alias")
		if aliasNode == nil {
			aliasNode = nameNode
		}

		exported := jsparse.NodeText(nameNode, content)
		local := jsparse.NodeText(aliasNode, content)
		if exported == "" {
			continue
		}
		if local == "" {
			local = exported
		}

		specifierText := jsparse.NodeText(child, content)
		specifiers = append(specifiers, Specifier{
			Kind:         SpecifierNamed,
			ExportedName: exported,
			LocalName:    local,
			TypeOnly:     isTypeOnlySpecifierText(specifierText),
		})
	}
	return specifiers
}

// isTypeOnlyImportStatement and isTypeOnlySpecifierText use the same
// text-prefix heuristic as the barrel validator's type-only detection:
// tree-sitter's TypeScript grammar exposes no dedicated field for the
// `type` modifier keyword that survives across grammar versions, so
// debarrel matches the leading keyword directly, as the teacher's own
// classifiers fall back to text inspection where grammar fields are
// unreliable.
func isTypeOnlyImportStatement(statementText string) bool {
	trimmed := strings.TrimSpace(statementText)
	return strings.HasPrefix(trimmed, "import type ") || strings.HasPrefix(trimmed, "import type{")
}

func isTypeOnlySpecifierText(specifierText string) bool {
	trimmed := strings.TrimSpace(specifierText)
	return strings.HasPrefix(trimmed, "type ")
}
