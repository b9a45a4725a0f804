// Package scanner implements the repository walk backing the batch
// CLI mode (SPEC_FULL.md §4 "Batch CLI mode"). It is grounded on the
// teacher's own ScanRepo (internal/lang/js/scan.go): a filepath.WalkDir
// skipping a fixed set of noise directories, restricted to the fixed
// JS/TS extension set and, in addition, to files matching the caller's
// include/exclude doublestar globs.
package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultSkipDirs mirrors the teacher's skipDirectories: directories a
// repo walk should never descend into regardless of glob configuration.
var defaultSkipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"coverage":     true,
	"vendor":       true,
	".next":        true,
	".turbo":       true,
}

// Options configures one repository walk.
type Options struct {
	// Include lists doublestar patterns a file's repo-relative,
	// slash-form path must match at least one of. A nil or empty slice
	// matches every file (subject to Exclude and the supported
	// extension set).
	Include []string
	// Exclude lists doublestar patterns that veto an otherwise-included
	// file. Exclude always wins over Include.
	Exclude []string
}

// supportedExtensions mirrors the teacher's own JS/TS extension set
// (internal/lang/js/scan.go supportedExtensions) — the Transform
// Driver only ever has anything to do in these files.
var supportedExtensions = map[string]bool{
	".js":  true,
	".cjs": true,
	".mjs": true,
	".jsx": true,
	".ts":  true,
	".mts": true,
	".cts": true,
	".tsx": true,
}

// Walk returns the absolute, sorted paths of every supported source
// file under root that Options selects. Results are sorted so batch
// output (diffs, check-mode exit status) is deterministic across runs.
func Walk(root string, opts Options) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != root && defaultSkipDirs[entry.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !supportedExtensions[filepath.Ext(path)] {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if !selected(rel, opts) {
			return nil
		}
		matches = append(matches, filepath.ToSlash(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func selected(relPath string, opts Options) bool {
	for _, pattern := range opts.Exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return false
		}
	}
	if len(opts.Include) == 0 {
		return true
	}
	for _, pattern := range opts.Include {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}
