// Package alias implements the Alias Engine (spec §4.3): turning a
// bare import specifier into a candidate absolute barrel path using
// the configured alias table and the importing file's location.
package alias

import (
	"github.com/debarrel/debarrel/internal/config"
	"github.com/debarrel/debarrel/internal/diagnostic"
	"github.com/debarrel/debarrel/internal/pattern"
	"github.com/debarrel/debarrel/internal/sandbox"
)

// Resolution is the outcome of resolving one import specifier to a
// candidate file on disk.
type Resolution struct {
	// Path is the resolved, sandboxed absolute path of the candidate
	// barrel file. Empty when Passthrough is true.
	Path string
	// Passthrough is true when the specifier is a bare package import
	// or a literal path that matches no configured pattern — the
	// import must be left untouched.
	Passthrough bool
}

// Engine resolves specifiers against a compiled configuration.
type Engine struct {
	cfg *config.Config
	sb  *sandbox.Sandbox
}

func New(cfg *config.Config, sb *sandbox.Sandbox) *Engine {
	return &Engine{cfg: cfg, sb: sb}
}

// Resolve implements the C3 procedure (spec §4.3). importerAbsPath is
// the absolute path of the file containing the import; specifier is
// the raw string literal named in the import's `from` clause.
func (e *Engine) Resolve(specifier, importerAbsPath string) (Resolution, error) {
	anchor := parentDir(importerAbsPath)

	matched := false
	for _, a := range e.cfg.Aliases {
		if !a.Applicable(importerAbsPath) {
			continue
		}
		captures, ok := a.Pattern.Match(specifier)
		if !ok {
			continue
		}
		matched = true

		for _, template := range a.Paths {
			candidate := pattern.Substitute(template, captures)
			abs, err := e.sb.Normalise(candidate, anchor)
			if err != nil {
				if err == sandbox.ErrForeign {
					return Resolution{}, diagnostic.NewInvalidFilePath(
						diagnostic.Location{File: importerAbsPath},
						"alias candidate %q resolves outside the sandbox", candidate)
				}
				return Resolution{}, err
			}
			if e.sb.Exists(abs) {
				return Resolution{Path: abs}, nil
			}
		}
	}

	if matched {
		return Resolution{}, diagnostic.NewBarrelFileNotFound(
			diagnostic.Location{File: importerAbsPath},
			"no existing file among alias candidates for specifier %q", specifier)
	}

	if isPathSpecifier(specifier) {
		abs, err := e.sb.Normalise(specifier, anchor)
		if err != nil {
			if err == sandbox.ErrForeign {
				return Resolution{Passthrough: true}, nil
			}
			return Resolution{}, err
		}
		if e.cfg.IsBarrelPath(abs, e.sb.CWD()) {
			return Resolution{Path: abs}, nil
		}
		return Resolution{Passthrough: true}, nil
	}

	return Resolution{Passthrough: true}, nil
}

func isPathSpecifier(specifier string) bool {
	if specifier == "" {
		return false
	}
	if specifier[0] == '/' {
		return true
	}
	if len(specifier) >= 2 && specifier[0] == '.' && (specifier[1] == '/' || specifier[1] == '.') {
		return true
	}
	return false
}

func parentDir(absPath string) string {
	idx := lastSlash(absPath)
	if idx < 0 {
		return absPath
	}
	return absPath[:idx]
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
