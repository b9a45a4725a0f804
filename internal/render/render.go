// Package render formats diagnostics for the CLI, mirroring the
// teacher's format-by-enum report.Formatter shape but scoped to the
// small set of outputs a compiler-plugin diagnostic channel needs.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/debarrel/debarrel/internal/diagnostic"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s", raw)
	}
}

type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Format(diagnostics []diagnostic.Diagnostic, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return f.formatJSON(diagnostics)
	case FormatText, "":
		return f.formatText(diagnostics), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (f *Formatter) formatText(diagnostics []diagnostic.Diagnostic) string {
	if len(diagnostics) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diagnostics))
	for _, d := range diagnostics {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

type jsonDiagnostic struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

func (f *Formatter) formatJSON(diagnostics []diagnostic.Diagnostic) (string, error) {
	out := make([]jsonDiagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, jsonDiagnostic{
			Code:     string(d.Code),
			Severity: string(d.Severity),
			Message:  d.Message,
			File:     d.Location.File,
			Line:     d.Location.Line,
			Column:   d.Location.Column,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal diagnostics: %w", err)
	}
	return string(payload), nil
}
