package rewrite

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/debarrel/debarrel/internal/barrel"
	"github.com/debarrel/debarrel/internal/diagnostic"
	"github.com/debarrel/debarrel/internal/reexport"
)

// Result is the outcome of rewriting one host import statement that
// targets a configured barrel.
type Result struct {
	// Statements are the replacement import lines, in emission order.
	// An empty slice means the original statement is removed entirely
	// (every bound specifier resolved to nothing, or was dropped).
	Statements []string
	// Diagnostics are non-fatal warnings raised along the way (spec
	// §4.8 "warn" outcomes, already tagged SeverityWarn) interleaved
	// with SeverityInfo debug traces when the driver was built with
	// debug: true.
	Diagnostics []diagnostic.Diagnostic
}

type namedBinding struct {
	originalName string
	localName    string
}

type group struct {
	source       string
	defaultLocal string
	named        []namedBinding
}

// Rewrite turns record — a host import statement already classified as
// targeting the barrel described by descriptor — into its direct-import
// replacement (spec §4.7). cwd and hostAbsPath are used to relativize
// emitted paths to the host file's own directory. When debug is true,
// every specifier resolution is additionally traced at SeverityInfo
// (SPEC_FULL.md §1 "Logging / diagnostics").
func Rewrite(record Record, descriptor *barrel.Descriptor, resolver *reexport.Resolver, hostAbsPath, cwd string, policy diagnostic.Policy, debug bool) (Result, error) {
	hostDir := parentDir(hostAbsPath)
	loc := location(hostAbsPath, record.Node)

	var diagnostics []diagnostic.Diagnostic
	pending := make(map[string]Specifier, len(record.Specifiers))
	for _, sp := range record.Specifiers {
		if record.TypeOnly || sp.TypeOnly {
			continue
		}
		if sp.Kind == SpecifierNamespace {
			diag := diagnostic.NewNamespaceImport(
				loc, "namespace import of barrel source %q cannot be rewritten to direct imports", record.Source)
			switch policy.Resolve(diag) {
			case diagnostic.OutcomeFatal:
				return Result{}, diag
			case diagnostic.OutcomeWarnSkip:
				diagnostics = append(diagnostics, diag.AsWarning())
			case diagnostic.OutcomeSilentSkip:
			}
			continue
		}
		pending[sp.ExportedName] = sp
	}

	var missing []string
	var groups []*group
	bySource := make(map[string]*group)

	// Emission order follows the barrel descriptor's exported-name
	// order, not the host import statement's specifier order (spec
	// §4.7 "emission order").
	for _, entry := range descriptor.ReExports {
		sp, ok := pending[entry.ExportedName]
		if !ok {
			continue
		}
		delete(pending, entry.ExportedName)

		if entry.TypeOnly {
			// Retained structurally, ignored for value resolution
			// (spec §4.5): a value import of a type-only re-export
			// has nothing to bind to.
			missing = append(missing, entry.ExportedName)
			continue
		}

		resolved, err := resolver.Resolve(descriptor, entry.ExportedName)
		if err != nil {
			return Result{}, err
		}
		if debug {
			diagnostics = append(diagnostics, diagnostic.NewDebugTrace(
				loc, "%s: %q resolved to %s", record.Source, entry.ExportedName, resolved.Source))
		}

		emittedSource := relativize(resolved.Source, hostDir, cwd)
		g, ok := bySource[emittedSource]
		if !ok {
			g = &group{source: emittedSource}
			bySource[emittedSource] = g
			groups = append(groups, g)
		}
		if resolved.IsDefaultSource {
			g.defaultLocal = sp.LocalName
		} else {
			g.named = append(g.named, namedBinding{originalName: resolved.OriginalName, localName: sp.LocalName})
		}
	}

	for name := range pending {
		missing = append(missing, name)
	}
	if len(missing) > 0 {
		return Result{}, diagnostic.NewUnresolvedExports(
			loc, "not exported by %s: %s", record.Source, strings.Join(missing, ", "))
	}

	statements := make([]string, 0, len(groups))
	for _, g := range groups {
		statements = append(statements, g.emit())
	}
	if debug {
		diagnostics = append(diagnostics, diagnostic.NewDebugTrace(
			loc, "%s: rewritten to %d direct import(s)", record.Source, len(statements)))
	}
	return Result{Statements: statements, Diagnostics: diagnostics}, nil
}

func (g *group) emit() string {
	var parts []string
	if g.defaultLocal != "" {
		parts = append(parts, g.defaultLocal)
	}
	if len(g.named) > 0 {
		names := make([]string, len(g.named))
		for i, b := range g.named {
			if b.originalName == b.localName {
				names[i] = b.localName
			} else {
				names[i] = b.originalName + " as " + b.localName
			}
		}
		parts = append(parts, "{ "+strings.Join(names, ", ")+" }")
	}
	return fmt.Sprintf("import %s from %q;", strings.Join(parts, ", "), g.source)
}

// relativize rewrites a resolved source into a specifier the host file
// can use: sandboxed absolute paths are made relative to hostDir, bare
// package specifiers and out-of-CWD absolute paths are emitted verbatim
// (spec §9 "absolute out-of-CWD re-export sources ... are emitted
// verbatim").
func relativize(resolvedSource, hostDir, cwd string) string {
	if !strings.HasPrefix(resolvedSource, "/") {
		return resolvedSource
	}
	if resolvedSource != cwd && !strings.HasPrefix(resolvedSource, cwd+"/") {
		return resolvedSource
	}
	rel, err := filepath.Rel(hostDir, resolvedSource)
	if err != nil {
		return resolvedSource
	}
	rel = filepath.ToSlash(rel)
	if rel != "." && !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

func location(hostAbsPath string, node *sitter.Node) diagnostic.Location {
	p := node.StartPoint()
	return diagnostic.Location{File: hostAbsPath, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func parentDir(absPath string) string {
	idx := strings.LastIndexByte(absPath, '/')
	if idx < 0 {
		return absPath
	}
	return absPath[:idx]
}
