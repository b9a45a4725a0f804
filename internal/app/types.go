package app

import "github.com/debarrel/debarrel/internal/render"

// Mode selects which subcommand Execute runs (spec §4 "Batch CLI
// mode" / "debarrel check").
type Mode string

const (
	ModeRewrite Mode = "rewrite"
	ModeCheck   Mode = "check"
)

// Request is the fully-parsed shape of one CLI invocation, the
// barrel-rewrite analogue of the teacher's own app.Request.
type Request struct {
	Mode       Mode
	RepoPath   string
	ConfigPath string
	Include    []string
	Exclude    []string
	Write      bool
	Format     render.Format
}

func DefaultRequest() Request {
	return Request{
		Mode:     ModeRewrite,
		RepoPath: ".",
		Format:   render.FormatText,
	}
}
