// Package reexport implements the Re-export Resolver (spec §4.6):
// following one exported name through a chain of barrels to its
// terminal defining module, detecting cycles the way the teacher's own
// cross-file re-export attribution resolver does (a visited-set keyed
// by file+export-name, carried down the recursion).
package reexport

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/debarrel/debarrel/internal/barrel"
	"github.com/debarrel/debarrel/internal/config"
	"github.com/debarrel/debarrel/internal/diagnostic"
	"github.com/debarrel/debarrel/internal/jsparse"
	"github.com/debarrel/debarrel/internal/sandbox"
)

// Resolved is the terminal result of following one exported name
// through zero or more nested barrels (spec §3 "Resolved specifier").
type Resolved struct {
	Source          string
	OriginalName    string
	IsDefaultSource bool
}

// Resolver loads and validates nested barrels on demand, using a
// shared Cache so a barrel visited from multiple chains is parsed at
// most once.
type Resolver struct {
	cfg    *config.Config
	sb     *sandbox.Sandbox
	cache  *barrel.Cache
	parser *jsparse.Parser
}

func New(cfg *config.Config, sb *sandbox.Sandbox, cache *barrel.Cache, parser *jsparse.Parser) *Resolver {
	return &Resolver{cfg: cfg, sb: sb, cache: cache, parser: parser}
}

// Resolve follows exportedName through descriptor, recursing into
// nested barrels. It returns E_UNRESOLVED_EXPORTS if the name is
// missing at any hop of the chain, and E_INVALID_BARREL_FILE
// if the chain revisits a (path, name) pair (spec §9 "Cyclic / nested
// barrels").
func (r *Resolver) Resolve(descriptor *barrel.Descriptor, exportedName string) (Resolved, error) {
	return r.resolve(descriptor, exportedName, make(map[string]struct{}))
}

func (r *Resolver) resolve(descriptor *barrel.Descriptor, exportedName string, visited map[string]struct{}) (Resolved, error) {
	key := descriptor.Path + "|" + exportedName
	if _, seen := visited[key]; seen {
		return Resolved{}, diagnostic.NewInvalidBarrelFile(
			diagnostic.Location{File: descriptor.Path},
			"re-export cycle detected resolving %q", exportedName)
	}
	visited[key] = struct{}{}

	entry, ok := descriptor.Lookup(exportedName)
	if !ok {
		return Resolved{}, diagnostic.NewUnresolvedExports(
			diagnostic.Location{File: descriptor.Path, Line: 0},
			"%q is not exported by %s", exportedName, descriptor.Path)
	}

	if !isPathSpecifier(entry.Source) {
		return Resolved{Source: entry.Source, OriginalName: entry.OriginalName, IsDefaultSource: entry.IsDefaultSource}, nil
	}

	resolvedPath, err := r.sb.Normalise(entry.Source, parentDir(descriptor.Path))
	if err != nil {
		if err == sandbox.ErrForeign {
			return Resolved{Source: entry.Source, OriginalName: entry.OriginalName, IsDefaultSource: entry.IsDefaultSource}, nil
		}
		return Resolved{}, err
	}

	if !r.cfg.IsBarrelPath(resolvedPath, r.sb.CWD()) {
		return Resolved{Source: resolvedPath, OriginalName: entry.OriginalName, IsDefaultSource: entry.IsDefaultSource}, nil
	}

	nested, err := r.loadBarrel(resolvedPath)
	if err != nil {
		return Resolved{}, err
	}

	return r.resolve(nested, entry.OriginalName, visited)
}

// ResolveAll resolves every requested name against descriptor,
// aggregating every miss into one E_UNRESOLVED_EXPORTS diagnostic
// (spec §7 "aggregates all missing names of one import").
func (r *Resolver) ResolveAll(descriptor *barrel.Descriptor, names []string) (map[string]Resolved, error) {
	resolved := make(map[string]Resolved, len(names))
	missing := make([]string, 0)
	for _, name := range names {
		res, err := r.resolve(descriptor, name, make(map[string]struct{}))
		if err != nil {
			if d, ok := err.(diagnostic.Diagnostic); ok && d.Code == diagnostic.CodeUnresolvedExports {
				missing = append(missing, name)
				continue
			}
			return nil, err
		}
		resolved[name] = res
	}
	if len(missing) > 0 {
		return nil, diagnostic.NewUnresolvedExports(
			diagnostic.Location{File: descriptor.Path},
			"not exported by %s: %s", descriptor.Path, strings.Join(missing, ", "))
	}
	return resolved, nil
}

func (r *Resolver) loadBarrel(absPath string) (*barrel.Descriptor, error) {
	return r.cache.GetOrValidate(absPath, func() (*barrel.Descriptor, error) {
		content, err := r.sb.ReadFile(absPath)
		if err != nil {
			return nil, diagnostic.NewFileRead(diagnostic.Location{File: absPath}, "%v", err)
		}
		var tree *sitter.Tree
		tree, err = r.parser.Parse(absPath, content)
		if err != nil {
			return nil, diagnostic.NewFileParse(diagnostic.Location{File: absPath}, "%v", err)
		}
		return barrel.Validate(absPath, tree, content)
	})
}

func isPathSpecifier(specifier string) bool {
	if specifier == "" {
		return false
	}
	if specifier[0] == '/' {
		return true
	}
	return len(specifier) >= 2 && specifier[0] == '.' && (specifier[1] == '/' || specifier[1] == '.')
}

func parentDir(absPath string) string {
	idx := strings.LastIndexByte(absPath, '/')
	if idx < 0 {
		return absPath
	}
	return absPath[:idx]
}
