package config

import (
	"strings"

	"github.com/debarrel/debarrel/internal/diagnostic"
	"github.com/debarrel/debarrel/internal/pattern"
)

// Document is the structural shape accepted from JSON, YAML or TOML
// (spec §6 "External Interfaces"). Field names are fixed across all
// three formats. Callers that already have a decoded document in hand
// (tests, embedders) can pass it straight to Compile.
type Document struct {
	Patterns          []string          `json:"patterns" yaml:"patterns" toml:"patterns"`
	Aliases           []AliasDocument   `json:"aliases" yaml:"aliases" toml:"aliases"`
	Symlinks          map[string]string `json:"symlinks" yaml:"symlinks" toml:"symlinks"`
	Debug             bool              `json:"debug" yaml:"debug" toml:"debug"`
	UnsupportedImport string            `json:"unsupported_import_mode" yaml:"unsupported_import_mode" toml:"unsupported_import_mode"`
	InvalidBarrel     string            `json:"invalid_barrel_mode" yaml:"invalid_barrel_mode" toml:"invalid_barrel_mode"`
}

// AliasDocument is one entry of Document.Aliases before compilation.
type AliasDocument struct {
	Pattern string   `json:"pattern" yaml:"pattern" toml:"pattern"`
	Paths   []string `json:"paths" yaml:"paths" toml:"paths"`
	Context []string `json:"context" yaml:"context" toml:"context"`
}

// Alias is a compiled alias entry (spec §3 "Alias").
type Alias struct {
	Pattern pattern.Pattern
	Paths   []string
	Context []string
}

// Applicable reports whether this alias may be used by an import issued
// from the file at absFilePath: the alias has no context restriction,
// or absFilePath lies under at least one context prefix.
func (a Alias) Applicable(absFilePath string) bool {
	if len(a.Context) == 0 {
		return true
	}
	for _, prefix := range a.Context {
		if absFilePath == prefix || hasPathPrefix(absFilePath, prefix) {
			return true
		}
	}
	return false
}

func hasPathPrefix(path, prefix string) bool {
	if len(path) <= len(prefix) {
		return false
	}
	return path[:len(prefix)] == prefix && path[len(prefix)] == '/'
}

// Config is the fully compiled, validated configuration a Driver is
// built from (spec §6, §9 "Configuration construction failures" —
// everything here is compiled eagerly so the first transform either
// succeeds setup or fails fast).
type Config struct {
	Patterns []pattern.Pattern
	Aliases  []Alias
	Symlinks map[string]string
	Debug    bool
	Policy   diagnostic.Policy
}

// IsBarrelPath reports whether absPath matches any configured barrel
// pattern. Patterns are written relative to cwd (the sandbox root),
// the same way a project's own tsconfig path globs are — an absolute
// filesystem path carries an unpredictable, machine-specific prefix
// that no fixed pattern could ever match.
func (c *Config) IsBarrelPath(absPath, cwd string) bool {
	rel := relativeTo(absPath, cwd)
	for _, p := range c.Patterns {
		if _, ok := p.Match(rel); ok {
			return true
		}
	}
	return false
}

func relativeTo(absPath, cwd string) string {
	if absPath == cwd {
		return ""
	}
	if strings.HasPrefix(absPath, cwd+"/") {
		return absPath[len(cwd)+1:]
	}
	return absPath
}
