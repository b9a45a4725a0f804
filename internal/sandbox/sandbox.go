// Package sandbox implements the Path Resolver (spec §4.1): it
// normalises paths to an absolute form anchored at the working
// directory, applies the symlink map, and refuses to let reads escape
// the working-directory sandbox. It builds on internal/safeio's
// root-confined file reads, the same primitive the teacher uses for
// every filesystem access that must not escape a repo root.
package sandbox

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/debarrel/debarrel/internal/safeio"
)

// ErrForeign is returned by Normalise when a path lies outside the
// sandbox with no symlink entry to bring it back in. Callers decide
// whether that's fatal (sandbox construction) or a per-import skip
// (transform driver).
var ErrForeign = errors.New("path is outside the sandbox")

// SymlinkMap is a user-declared external->internal path mapping
// (spec §3 "Symlink map"). Keys are split at construction time into
// file-level (exact match) and directory-level (prefix match,
// longest-prefix wins).
type SymlinkMap struct {
	files map[string]string
	dirs  []symlinkDir
}

type symlinkDir struct {
	key   string
	value string
}

// NewSymlinkMap compiles a raw external->internal mapping. A key ending
// in a filename with an extension is file-level; everything else is
// directory-level. Trailing slashes on directory keys are ignored.
func NewSymlinkMap(raw map[string]string) SymlinkMap {
	m := SymlinkMap{files: make(map[string]string, len(raw))}
	dirs := make([]symlinkDir, 0, len(raw))
	for key, value := range raw {
		key = filepath.ToSlash(key)
		value = filepath.ToSlash(value)
		if isFileLevelKey(key) {
			m.files[key] = value
			continue
		}
		dirs = append(dirs, symlinkDir{key: strings.TrimSuffix(key, "/"), value: strings.TrimSuffix(value, "/")})
	}
	// Longest directory prefix must be tried first.
	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			if len(dirs[j].key) > len(dirs[i].key) {
				dirs[i], dirs[j] = dirs[j], dirs[i]
			}
		}
	}
	m.dirs = dirs
	return m
}

func isFileLevelKey(key string) bool {
	base := filepath.Base(key)
	return filepath.Ext(base) != ""
}

// Substitute applies the symlink map to an absolute, slash-normalised
// path. It returns the substituted path and true on a match.
func (m SymlinkMap) Substitute(absPath string) (string, bool) {
	if value, ok := m.files[absPath]; ok {
		return value, true
	}
	for _, dir := range m.dirs {
		if absPath == dir.key {
			return dir.value, true
		}
		if strings.HasPrefix(absPath, dir.key+"/") {
			return dir.value + strings.TrimPrefix(absPath, dir.key), true
		}
	}
	return "", false
}

// Sandbox anchors path resolution at a working directory and enforces
// that every read stays within it (spec §4.1 "Sandbox rule").
type Sandbox struct {
	cwd     string
	symlink SymlinkMap

	mu       sync.Mutex
	existsBy map[string]bool
}

func New(cwd string, symlinks map[string]string) (*Sandbox, error) {
	absCWD, err := filepath.Abs(cwd)
	if err != nil {
		return nil, err
	}
	return &Sandbox{
		cwd:      filepath.ToSlash(filepath.Clean(absCWD)),
		symlink:  NewSymlinkMap(symlinks),
		existsBy: make(map[string]bool),
	}, nil
}

// CWD returns the sandbox's normalised working-directory root.
func (s *Sandbox) CWD() string {
	return s.cwd
}

// InSandbox reports whether an already-absolute, slash-normalised path
// lies within the working-directory root.
func (s *Sandbox) InSandbox(absPath string) bool {
	if absPath == s.cwd {
		return true
	}
	return strings.HasPrefix(absPath, s.cwd+"/")
}

// Normalise resolves path to an absolute, sandboxed form (spec §4.1).
// If path is relative it is resolved against anchorDir first. Absolute
// paths outside the sandbox are substituted via the symlink map; if no
// entry matches, ErrForeign is returned and the caller decides how to
// react.
func (s *Sandbox) Normalise(path string, anchorDir string) (string, error) {
	slashPath := filepath.ToSlash(path)
	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.ToSlash(filepath.Clean(slashPath))
	} else {
		anchor := anchorDir
		if anchor == "" {
			anchor = s.cwd
		}
		abs = filepath.ToSlash(filepath.Clean(filepath.Join(anchor, slashPath)))
	}

	if s.InSandbox(abs) {
		return abs, nil
	}

	if substituted, ok := s.symlink.Substitute(abs); ok {
		substituted = filepath.ToSlash(filepath.Clean(substituted))
		if s.InSandbox(substituted) {
			return substituted, nil
		}
	}

	return "", ErrForeign
}

// Exists reports whether absPath (already sandboxed) exists as a
// regular file, caching the result for the sandbox's lifetime (spec
// §4.3 "file existence is cached").
func (s *Sandbox) Exists(absPath string) bool {
	s.mu.Lock()
	if cached, ok := s.existsBy[absPath]; ok {
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	exists := safeio.IsRegularFile(absPath)

	s.mu.Lock()
	s.existsBy[absPath] = exists
	s.mu.Unlock()
	return exists
}

// ReadFile reads absPath, which must already lie within the sandbox.
func (s *Sandbox) ReadFile(absPath string) ([]byte, error) {
	return safeio.ReadFileUnder(s.cwd, absPath)
}
