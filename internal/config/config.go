// Package config loads and compiles the plugin's structural
// configuration (spec §6 "External Interfaces"). Loading happens once
// per plugin instantiation: the document is decoded from JSON, YAML or
// TOML depending on file extension, validated against a JSON Schema,
// then compiled into a Config with every pattern parsed, every alias's
// wildcard arity checked, and every mode field validated — so
// construction either succeeds completely or fails with E_INVALID_CONFIG
// before the transform driver is ever installed (spec §9).
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/debarrel/debarrel/internal/diagnostic"
	"github.com/debarrel/debarrel/internal/pattern"
)

// Load decodes and compiles the configuration document data, choosing
// the decode format by path's file extension (.json or no extension,
// .yaml/.yml, .toml). It does not read path itself.
func Load(path string, data []byte) (*Config, error) {
	document, err := decodeGeneric(path, data)
	if err != nil {
		return nil, diagnostic.NewInvalidConfig("%v", err)
	}
	if err := validateSchema(document); err != nil {
		return nil, diagnostic.NewInvalidConfig("%v", err)
	}

	canonical, err := json.Marshal(document)
	if err != nil {
		return nil, diagnostic.NewInvalidConfig("re-marshal config document: %v", err)
	}
	var raw Document
	if err := json.Unmarshal(canonical, &raw); err != nil {
		return nil, diagnostic.NewInvalidConfig("decode config document: %v", err)
	}

	return Compile(raw)
}

func decodeGeneric(path string, data []byte) (map[string]any, error) {
	document := make(map[string]any)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		if err := json.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("invalid JSON config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("invalid YAML config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("invalid TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unrecognised config extension %q", ext)
	}
	return document, nil
}

// Compile turns a decoded Document into a validated Config, performing
// every check the spec requires at construction time: glob compilation,
// alias wildcard-arity matching (spec §3), and mode validation
// (spec §6 "Invalid values for the two mode fields cause E_INVALID_CONFIG").
func Compile(raw Document) (*Config, error) {
	patterns := make([]pattern.Pattern, 0, len(raw.Patterns))
	for _, p := range raw.Patterns {
		patterns = append(patterns, pattern.Compile(p))
	}

	aliases := make([]Alias, 0, len(raw.Aliases))
	for i, a := range raw.Aliases {
		compiled := pattern.Compile(a.Pattern)
		wildcards := compiled.WildcardCount()
		if len(a.Paths) == 0 {
			return nil, diagnostic.NewInvalidConfig("aliases[%d]: paths must not be empty", i)
		}
		for j, tmpl := range a.Paths {
			if pattern.WildcardCount(tmpl) != wildcards {
				return nil, diagnostic.NewInvalidConfig(
					"aliases[%d].paths[%d]: wildcard count %d does not match pattern %q (%d wildcards)",
					i, j, pattern.WildcardCount(tmpl), a.Pattern, wildcards)
			}
		}
		aliases = append(aliases, Alias{
			Pattern: compiled,
			Paths:   append([]string{}, a.Paths...),
			Context: append([]string{}, a.Context...),
		})
	}

	unsupportedMode, err := diagnostic.ParseMode(raw.UnsupportedImport)
	if err != nil {
		return nil, diagnostic.NewInvalidConfig("unsupported_import_mode: %v", err)
	}
	invalidBarrelMode, err := diagnostic.ParseMode(raw.InvalidBarrel)
	if err != nil {
		return nil, diagnostic.NewInvalidConfig("invalid_barrel_mode: %v", err)
	}

	symlinks := make(map[string]string, len(raw.Symlinks))
	for k, v := range raw.Symlinks {
		symlinks[k] = v
	}

	return &Config{
		Patterns: patterns,
		Aliases:  aliases,
		Symlinks: symlinks,
		Debug:    raw.Debug,
		Policy: diagnostic.Policy{
			UnsupportedImport: unsupportedMode,
			InvalidBarrel:     invalidBarrelMode,
		},
	}, nil
}
