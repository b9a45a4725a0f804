// Package pattern compiles and matches the glob-style patterns used to
// recognise barrel files and alias specifiers (spec §4.2). The only
// metacharacter is "*", which matches a run of characters containing
// no "/". Matching is anchored (whole-string) and yields the captured
// wildcard substrings in source order.
//
// This is hand-rolled rather than built on a general glob library
// because none of the pack's glob packages (bmatcuk/doublestar) expose
// capture extraction for wildcard segments; doublestar answers "does
// this match" but not "what did each * stand for", which the Alias
// Engine needs to substitute into template paths.
package pattern

import "strings"

// Pattern is a compiled glob: a sequence of literal fragments with
// len(fragments)-1 wildcards interleaved between them.
type Pattern struct {
	raw       string
	fragments []string
}

// Compile parses raw into a Pattern. It never fails: any string,
// including one with zero wildcards, is a valid pattern (degenerating
// to literal equality).
func Compile(raw string) Pattern {
	return Pattern{raw: raw, fragments: strings.Split(raw, "*")}
}

func (p Pattern) String() string {
	return p.raw
}

// WildcardCount returns how many "*" the pattern contains.
func (p Pattern) WildcardCount() int {
	return len(p.fragments) - 1
}

// Match attempts an anchored match of candidate against the pattern.
// On success it returns the captured substrings, one per wildcard, in
// source order.
func (p Pattern) Match(candidate string) ([]string, bool) {
	if p.WildcardCount() == 0 {
		if candidate == p.raw {
			return nil, true
		}
		return nil, false
	}

	fragments := p.fragments
	first := fragments[0]
	if !strings.HasPrefix(candidate, first) {
		return nil, false
	}
	pos := len(first)

	captures := make([]string, 0, len(fragments)-1)
	for i := 1; i < len(fragments)-1; i++ {
		frag := fragments[i]
		idx, ok := findCaptureBoundary(candidate, pos, frag)
		if !ok {
			return nil, false
		}
		capture := candidate[pos:idx]
		if strings.Contains(capture, "/") {
			return nil, false
		}
		captures = append(captures, capture)
		pos = idx + len(frag)
	}

	last := fragments[len(fragments)-1]
	if !strings.HasSuffix(candidate[pos:], last) {
		return nil, false
	}
	finalCapture := candidate[pos : len(candidate)-len(last)]
	if strings.Contains(finalCapture, "/") {
		return nil, false
	}
	captures = append(captures, finalCapture)
	return captures, true
}

// findCaptureBoundary finds the leftmost occurrence of frag at or after
// pos such that the text between pos and the occurrence contains no
// "/" (a wildcard cannot span a path separator). It skips occurrences
// whose preceding capture would cross a "/".
func findCaptureBoundary(candidate string, pos int, frag string) (int, bool) {
	searchFrom := pos
	for {
		rel := strings.Index(candidate[searchFrom:], frag)
		if rel == -1 {
			return 0, false
		}
		idx := searchFrom + rel
		if !strings.Contains(candidate[pos:idx], "/") {
			return idx, true
		}
		if frag == "" {
			return 0, false
		}
		searchFrom = idx + 1
	}
}

// Substitute fills template (a string containing WildcardCount() "*"
// placeholders) with captures, positionally.
func Substitute(template string, captures []string) string {
	parts := strings.Split(template, "*")
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i < len(captures) {
			b.WriteString(captures[i])
		}
	}
	return b.String()
}

// WildcardCount reports how many "*" appear in a raw (uncompiled)
// template string, used to validate alias arity (spec §3 invariant).
func WildcardCount(raw string) int {
	return strings.Count(raw, "*")
}
