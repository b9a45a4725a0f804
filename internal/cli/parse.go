package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/debarrel/debarrel/internal/app"
	"github.com/debarrel/debarrel/internal/render"
)

var ErrHelpRequested = errors.New("help requested")

func ParseArgs(args []string) (app.Request, error) {
	req := app.DefaultRequest()
	if len(args) == 0 {
		return req, ErrHelpRequested
	}

	if isHelpArg(args[0]) {
		return req, ErrHelpRequested
	}

	switch args[0] {
	case "rewrite":
		return parseRewrite(args[1:], req, app.ModeRewrite)
	case "check":
		return parseRewrite(args[1:], req, app.ModeCheck)
	default:
		return req, fmt.Errorf("unknown command: %s", args[0])
	}
}

func parseRewrite(args []string, req app.Request, mode app.Mode) (app.Request, error) {
	args = normalizeArgs(args)

	fs := flag.NewFlagSet(string(mode), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	repoPath := fs.String("repo", req.RepoPath, "repository path")
	configPath := fs.String("config", req.ConfigPath, "config file path")
	formatFlag := fs.String("format", string(req.Format), "diagnostic output format")
	write := fs.Bool("write", false, "write rewritten files back to disk (rewrite mode only)")
	var include, exclude multiFlag

	fs.Var(&include, "include", "doublestar include glob (repeatable)")
	fs.Var(&exclude, "exclude", "doublestar exclude glob (repeatable)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return req, ErrHelpRequested
		}
		return req, err
	}
	if fs.NArg() > 0 {
		return req, fmt.Errorf("unexpected arguments for %s", mode)
	}

	format, err := render.ParseFormat(*formatFlag)
	if err != nil {
		return req, err
	}

	if *write && mode == app.ModeCheck {
		return req, fmt.Errorf("--write is not valid with check")
	}

	req.Mode = mode
	req.RepoPath = strings.TrimSpace(*repoPath)
	req.ConfigPath = strings.TrimSpace(*configPath)
	req.Format = format
	req.Write = *write
	req.Include = []string(include)
	req.Exclude = []string(exclude)

	return req, nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func normalizeArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	flags := make([]string, 0, len(args))
	positionals := make([]string, 0, 1)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if strings.HasPrefix(arg, "-") {
			flags = append(flags, arg)
			if flagNeedsValue(arg) && i+1 < len(args) {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		positionals = append(positionals, arg)
	}

	return append(flags, positionals...)
}

func flagNeedsValue(arg string) bool {
	if strings.Contains(arg, "=") {
		return false
	}
	switch arg {
	case "--repo", "--config", "--format", "--include", "--exclude":
		return true
	default:
		return false
	}
}

// multiFlag implements flag.Value to accept a repeatable --include /
// --exclude flag, appending each occurrence rather than overwriting.
type multiFlag []string

func (m *multiFlag) String() string {
	if m == nil {
		return ""
	}
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}
