// Package transform implements the Transform Driver (spec §4.9): the
// state machine that, for one parsed source file, classifies every
// import statement, resolves and validates the barrel it targets,
// rewrites it to direct imports, and splices the result — never
// producing a partially-rewritten file.
package transform

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/debarrel/debarrel/internal/alias"
	"github.com/debarrel/debarrel/internal/barrel"
	"github.com/debarrel/debarrel/internal/config"
	"github.com/debarrel/debarrel/internal/diagnostic"
	"github.com/debarrel/debarrel/internal/jsparse"
	"github.com/debarrel/debarrel/internal/reexport"
	"github.com/debarrel/debarrel/internal/rewrite"
	"github.com/debarrel/debarrel/internal/sandbox"
)

// Driver holds every component wired together from one compiled
// Config, ready to transform any number of files against it (spec §5
// "a host may invoke the plugin on many files ... each with its own
// state", here backed by the shared barrel cache).
type Driver struct {
	cfg      *config.Config
	sb       *sandbox.Sandbox
	aliases  *alias.Engine
	cache    *barrel.Cache
	resolver *reexport.Resolver
	parser   *jsparse.Parser
}

// New constructs a Driver rooted at cwd. Construction fails fast with
// E_INVALID_ENV if cwd is empty (spec §6 "missing cwd or filename").
func New(cfg *config.Config, cwd string) (*Driver, error) {
	if strings.TrimSpace(cwd) == "" {
		return nil, diagnostic.NewInvalidEnv("cwd must not be empty")
	}
	sb, err := sandbox.New(cwd, cfg.Symlinks)
	if err != nil {
		return nil, diagnostic.NewInvalidEnv("%v", err)
	}
	cache := barrel.NewCache()
	parser := jsparse.NewParser()
	return &Driver{
		cfg:      cfg,
		sb:       sb,
		aliases:  alias.New(cfg, sb),
		cache:    cache,
		resolver: reexport.New(cfg, sb, cache, parser),
		parser:   parser,
	}, nil
}

// Result is the outcome of transforming one file.
type Result struct {
	// Source is the (possibly unchanged) rewritten file content.
	Source []byte
	// Changed reports whether Source differs from the input.
	Changed bool
	// Diagnostics are non-fatal warnings raised along the way (spec
	// §4.8 "warn" outcomes) interleaved with SeverityInfo debug traces
	// when the Driver was built from a Config with Debug set.
	Diagnostics []diagnostic.Diagnostic
}

// Transform runs the Init -> Classify -> Resolve -> Validate -> Rewrite
// -> Splice pipeline over every import statement in source (spec
// §4.9). absFilePath must be an absolute path; an empty value is
// E_INVALID_ENV. Files outside the driver's sandbox, and files with no
// import targeting a configured barrel, are returned byte-identical.
func (d *Driver) Transform(absFilePath string, source []byte) (Result, error) {
	if strings.TrimSpace(absFilePath) == "" {
		return Result{}, diagnostic.NewInvalidEnv("file path must not be empty")
	}
	if !d.sb.InSandbox(absFilePath) {
		return Result{Source: source}, nil
	}

	tree, err := d.parser.Parse(absFilePath, source)
	if err != nil {
		return Result{}, diagnostic.NewFileParse(diagnostic.Location{File: absFilePath}, "%v", err)
	}

	var edits []rewrite.Edit
	var diagnostics []diagnostic.Diagnostic
	if d.cfg.Debug {
		diagnostics = append(diagnostics, diagnostic.NewDebugTrace(
			diagnostic.Location{File: absFilePath}, "transforming %s", absFilePath))
	}

	for _, stmt := range jsparse.TopLevelStatements(tree) {
		if stmt.Type() != "import_statement" {
			continue
		}
		record, ok := rewrite.Extract(stmt, source)
		if !ok {
			continue
		}

		edit, fileDiagnostics, skip, err := d.transformImport(record, absFilePath)
		if err != nil {
			return Result{}, err
		}
		diagnostics = append(diagnostics, fileDiagnostics...)
		if skip {
			continue
		}
		edits = append(edits, edit)
	}

	if len(edits) == 0 {
		if d.cfg.Debug {
			diagnostics = append(diagnostics, diagnostic.NewDebugTrace(
				diagnostic.Location{File: absFilePath}, "%s: no barrel imports rewritten", absFilePath))
		}
		return Result{Source: source, Diagnostics: diagnostics}, nil
	}

	rewritten := rewrite.Splice(source, edits)
	if d.cfg.Debug {
		diagnostics = append(diagnostics, diagnostic.NewDebugTrace(
			diagnostic.Location{File: absFilePath}, "%s: spliced %d import statement(s)", absFilePath, len(edits)))
	}
	return Result{Source: rewritten, Changed: true, Diagnostics: diagnostics}, nil
}

// transformImport classifies and, if applicable, rewrites one import
// statement. skip is true when the statement should be left exactly as
// written: it doesn't target a configured barrel, or it does but
// invalid_barrel_mode or unsupported_import_mode softened the failure
// to a skip.
func (d *Driver) transformImport(record rewrite.Record, hostAbsPath string) (rewrite.Edit, []diagnostic.Diagnostic, bool, error) {
	loc := diagnostic.Location{File: hostAbsPath}

	resolution, err := d.aliases.Resolve(record.Source, hostAbsPath)
	if err != nil {
		return rewrite.Edit{}, nil, false, err
	}
	if resolution.Passthrough {
		var diagnostics []diagnostic.Diagnostic
		if d.cfg.Debug {
			diagnostics = append(diagnostics, diagnostic.NewDebugTrace(loc, "%q is not a configured barrel, left unchanged", record.Source))
		}
		return rewrite.Edit{}, diagnostics, true, nil
	}

	descriptor, err := d.loadBarrel(resolution.Path)
	if err != nil {
		diag, ok := err.(diagnostic.Diagnostic)
		if !ok || diag.Code != diagnostic.CodeInvalidBarrelFile {
			return rewrite.Edit{}, nil, false, err
		}
		switch d.cfg.Policy.Resolve(diag) {
		case diagnostic.OutcomeFatal:
			return rewrite.Edit{}, nil, false, diag
		case diagnostic.OutcomeWarnSkip:
			return rewrite.Edit{}, []diagnostic.Diagnostic{diag.AsWarning()}, true, nil
		default: // OutcomeSilentSkip
			return rewrite.Edit{}, nil, true, nil
		}
	}

	var diagnostics []diagnostic.Diagnostic
	if d.cfg.Debug {
		diagnostics = append(diagnostics, diagnostic.NewDebugTrace(loc, "%q resolved to barrel %s", record.Source, resolution.Path))
	}

	// A softened namespace import keeps the whole statement as written;
	// the fatal outcome is raised by Rewrite.
	for _, sp := range record.Specifiers {
		if sp.Kind != rewrite.SpecifierNamespace || record.TypeOnly || sp.TypeOnly {
			continue
		}
		start := record.Node.StartPoint()
		diag := diagnostic.NewNamespaceImport(diagnostic.Location{File: hostAbsPath, Line: int(start.Row) + 1, Column: int(start.Column) + 1},
			"namespace import of barrel source %q cannot be rewritten to direct imports", record.Source)
		switch d.cfg.Policy.Resolve(diag) {
		case diagnostic.OutcomeWarnSkip:
			return rewrite.Edit{}, append(diagnostics, diag.AsWarning()), true, nil
		case diagnostic.OutcomeSilentSkip:
			return rewrite.Edit{}, diagnostics, true, nil
		}
	}

	result, err := rewrite.Rewrite(record, descriptor, d.resolver, hostAbsPath, d.sb.CWD(), d.cfg.Policy, d.cfg.Debug)
	if err != nil {
		return rewrite.Edit{}, nil, false, err
	}

	return rewrite.NewEdit(record, result.Statements), append(diagnostics, result.Diagnostics...), false, nil
}

func (d *Driver) loadBarrel(absPath string) (*barrel.Descriptor, error) {
	descriptor, err := d.cache.GetOrValidate(absPath, func() (*barrel.Descriptor, error) {
		content, err := d.sb.ReadFile(absPath)
		if err != nil {
			return nil, diagnostic.NewFileRead(diagnostic.Location{File: absPath}, "%v", err)
		}
		var tree *sitter.Tree
		tree, err = d.parser.Parse(absPath, content)
		if err != nil {
			return nil, diagnostic.NewFileParse(diagnostic.Location{File: absPath}, "%v", err)
		}
		return barrel.Validate(absPath, tree, content)
	})
	return descriptor, err
}
