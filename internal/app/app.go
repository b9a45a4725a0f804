// Package app wires the Transform Driver, repository scanner and
// diagnostic renderer into the two subcommands a host compiler stand-in
// needs (SPEC_FULL.md §4 "Batch CLI mode"), in the shape of the
// teacher's own App{...}.Execute(ctx, req) dispatch
// (internal/app/app.go).
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/debarrel/debarrel/internal/config"
	"github.com/debarrel/debarrel/internal/diagnostic"
	"github.com/debarrel/debarrel/internal/render"
	"github.com/debarrel/debarrel/internal/scanner"
	"github.com/debarrel/debarrel/internal/transform"
)

// ErrUnknownMode mirrors the teacher's own ErrUnknownMode.
var ErrUnknownMode = errors.New("unknown mode")

// ErrWouldRewrite is returned by the check subcommand when at least one
// file would be changed by a rewrite, the barrel-domain analogue of the
// teacher's --fail-on-increase exit-code convention.
var ErrWouldRewrite = errors.New("one or more files would be rewritten")

type App struct {
	Out io.Writer
}

func New(out io.Writer) *App {
	return &App{Out: out}
}

func (a *App) Execute(ctx context.Context, req Request) (string, error) {
	switch req.Mode {
	case ModeRewrite:
		return a.executeRewrite(ctx, req, false)
	case ModeCheck:
		return a.executeRewrite(ctx, req, true)
	default:
		return "", ErrUnknownMode
	}
}

func (a *App) executeRewrite(ctx context.Context, req Request, checkOnly bool) (string, error) {
	repoPath, err := filepath.Abs(req.RepoPath)
	if err != nil {
		return "", fmt.Errorf("resolve repo path: %w", err)
	}

	cfg, err := loadConfig(repoPath, req.ConfigPath)
	if err != nil {
		return "", err
	}

	driver, err := transform.New(cfg, repoPath)
	if err != nil {
		return "", err
	}

	files, err := scanner.Walk(repoPath, scanner.Options{Include: req.Include, Exclude: req.Exclude})
	if err != nil {
		return "", fmt.Errorf("scan repository: %w", err)
	}

	var sections []string
	var diagnostics []diagnostic.Diagnostic
	changedCount := 0

	for _, path := range files {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		original, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		result, err := driver.Transform(path, original)
		if err != nil {
			return "", err
		}
		diagnostics = append(diagnostics, result.Diagnostics...)
		if !result.Changed {
			continue
		}
		changedCount++

		if req.Write && !checkOnly {
			if err := os.WriteFile(path, result.Source, 0o644); err != nil {
				return "", fmt.Errorf("write %s: %w", path, err)
			}
			continue
		}

		diff, err := unifiedDiff(path, repoPath, original, result.Source)
		if err != nil {
			return "", err
		}
		sections = append(sections, diff)
	}

	formatter := render.NewFormatter()
	formatted, err := formatter.Format(diagnostics, formatOrDefault(req.Format))
	if err != nil {
		return "", err
	}

	output := strings.Join(sections, "")
	if formatted != "" {
		if output != "" {
			output += "\n"
		}
		output += formatted
	}

	if checkOnly && changedCount > 0 {
		return output, ErrWouldRewrite
	}
	return output, nil
}

func loadConfig(repoPath, explicitPath string) (*config.Config, error) {
	path := explicitPath
	if path == "" {
		found, ok := findDefaultConfig(repoPath)
		if !ok {
			return config.Compile(config.Document{})
		}
		path = found
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return config.Load(path, content)
}

func findDefaultConfig(repoPath string) (string, bool) {
	for _, name := range []string{"debarrel.json", "debarrel.yaml", "debarrel.yml", "debarrel.toml"} {
		candidate := filepath.Join(repoPath, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func unifiedDiff(absPath, repoPath string, original, rewritten []byte) (string, error) {
	rel, err := filepath.Rel(repoPath, absPath)
	if err != nil {
		rel = absPath
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(rewritten)),
		FromFile: filepath.ToSlash(rel),
		ToFile:   filepath.ToSlash(rel),
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func formatOrDefault(f render.Format) render.Format {
	if f == "" {
		return render.FormatText
	}
	return f
}
