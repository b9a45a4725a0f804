// Package diagnostic implements the error taxonomy and recovery policy
// (spec §7/§8): every fallible step in the transform produces a Diagnostic
// tagged with a stable Code, and a Policy decides whether that code is
// fatal, a recoverable warning, or a silent skip.
package diagnostic

import "fmt"

// Code identifies one of the transform's fixed error classes.
type Code string

const (
	CodeInvalidEnv          Code = "E_INVALID_ENV"
	CodeInvalidConfig       Code = "E_INVALID_CONFIG"
	CodeNoNamespaceImports  Code = "E_NO_NAMESPACE_IMPORTS"
	CodeUnresolvedExports   Code = "E_UNRESOLVED_EXPORTS"
	CodeFileRead            Code = "E_FILE_READ"
	CodeFileParse           Code = "E_FILE_PARSE"
	CodeInvalidBarrelFile   Code = "E_INVALID_BARREL_FILE"
	CodeInvalidFilePath     Code = "E_INVALID_FILE_PATH"
	CodeBarrelFileNotFound  Code = "E_BARREL_FILE_NOT_FOUND"

	// CodeDebugTrace tags the verbose stage-by-stage logging enabled by
	// debug: true. It never reaches Policy.Resolve: trace diagnostics
	// are informational only and are always emitted, never softened or
	// suppressed.
	CodeDebugTrace Code = "DEBUG_TRACE"
)

// Location is the source span a diagnostic is attributed to.
type Location struct {
	File   string
	Line   int
	Column int
}

// Severity distinguishes a hard failure from advisory output.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
	SeverityInfo  Severity = "info"
)

// Diagnostic is the uniform shape emitted on the host's error channel
// for both fatal errors and recoverable warnings (spec §6).
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Location Location
}

func (d Diagnostic) Error() string {
	if d.Location.File == "" {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s:%d:%d)", d.Code, d.Message, d.Location.File, d.Location.Line, d.Location.Column)
}

func (d Diagnostic) String() string {
	prefix := ""
	switch d.Severity {
	case SeverityWarn:
		prefix = "Warning: "
	case SeverityInfo:
		prefix = "Debug: "
	}
	return prefix + d.Error()
}

func newError(code Code, loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...), Location: loc}
}

func NewInvalidEnv(format string, args ...any) Diagnostic {
	return newError(CodeInvalidEnv, Location{}, format, args...)
}

func NewInvalidConfig(format string, args ...any) Diagnostic {
	return newError(CodeInvalidConfig, Location{}, format, args...)
}

func NewNamespaceImport(loc Location, format string, args ...any) Diagnostic {
	return newError(CodeNoNamespaceImports, loc, format, args...)
}

func NewUnresolvedExports(loc Location, format string, args ...any) Diagnostic {
	return newError(CodeUnresolvedExports, loc, format, args...)
}

func NewFileRead(loc Location, format string, args ...any) Diagnostic {
	return newError(CodeFileRead, loc, format, args...)
}

func NewFileParse(loc Location, format string, args ...any) Diagnostic {
	return newError(CodeFileParse, loc, format, args...)
}

func NewInvalidBarrelFile(loc Location, format string, args ...any) Diagnostic {
	return newError(CodeInvalidBarrelFile, loc, format, args...)
}

func NewInvalidFilePath(loc Location, format string, args ...any) Diagnostic {
	return newError(CodeInvalidFilePath, loc, format, args...)
}

func NewBarrelFileNotFound(loc Location, format string, args ...any) Diagnostic {
	return newError(CodeBarrelFileNotFound, loc, format, args...)
}

// NewDebugTrace builds an informational diagnostic for debug: true
// logging (SPEC_FULL.md §1 "Logging / diagnostics"). Unlike newError's
// constructors, this is never an error outcome — it is routed through
// the same diagnostic writer as warnings, tagged at SeverityInfo.
func NewDebugTrace(loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Code: CodeDebugTrace, Severity: SeverityInfo, Message: fmt.Sprintf(format, args...), Location: loc}
}

// AsWarning returns a copy of d tagged as a recoverable warning instead of
// a hard error, for the categories Policy permits softening.
func (d Diagnostic) AsWarning() Diagnostic {
	d.Severity = SeverityWarn
	return d
}
