package cli

const usage = `Usage:
  debarrel rewrite [--repo PATH] [--config PATH] [--format text|json] [--include GLOB]... [--exclude GLOB]... [--write]
  debarrel check [--repo PATH] [--config PATH] [--format text|json] [--include GLOB]... [--exclude GLOB]...

Options:
  --repo PATH      Repository path (default: .)
  --config PATH    Config file path (default: repo debarrel.json/.yaml/.yml/.toml)
  --format FORMAT  Diagnostic output format: text or json (default: text)
  --include GLOB   Only rewrite files matching this doublestar glob (repeatable)
  --exclude GLOB   Never rewrite files matching this doublestar glob (repeatable)
  --write          Write rewritten files back to disk (rewrite only; default prints a diff)
  -h, --help       Show this help text

"check" exits 3 if any file would be rewritten, for CI gating.
`

func Usage() string {
	return usage
}
