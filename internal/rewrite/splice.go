package rewrite

import "sort"

// Edit replaces the byte range [Start, End) of the original source with
// Replacement. An empty Replacement removes the range entirely (spec
// §4.7 "splicing ... zero means the declaration is removed").
type Edit struct {
	Start       uint32
	End         uint32
	Replacement string
}

// NewEdit builds the Edit for one rewritten import statement: record's
// own byte range replaced by its emitted statements joined with
// newlines, or removed if statements is empty.
func NewEdit(record Record, statements []string) Edit {
	replacement := ""
	for i, stmt := range statements {
		if i > 0 {
			replacement += "\n"
		}
		replacement += stmt
	}
	return Edit{Start: record.Node.StartByte(), End: record.Node.EndByte(), Replacement: replacement}
}

// Splice applies every edit to source and returns the resulting bytes.
// Edits are sorted by start offset and copied left-to-right into a new
// buffer, so every offset refers to the original source; an edit that
// overlaps an earlier one is skipped.
func Splice(source []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		return source
	}
	ordered := append([]Edit(nil), edits...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	var out []byte
	cursor := uint32(0)
	for _, e := range ordered {
		if e.Start < cursor {
			continue
		}
		out = append(out, source[cursor:e.Start]...)
		out = append(out, []byte(e.Replacement)...)
		cursor = e.End
	}
	out = append(out, source[cursor:]...)
	return out
}
