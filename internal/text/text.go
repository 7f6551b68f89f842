// Package text holds small string helpers used for display.
package text

import "strings"

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// DefaultLimit is the display limit used for summaries.
const DefaultLimit = 80

// Truncate returns s unchanged when it has at most limit characters,
// otherwise its first limit characters followed by Ellipsis.
// Length is counted in runes, not display cells, so wide characters
// may still overflow a fixed-width column.
func Truncate(s string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + Ellipsis
		}
		n++
	}
	return s
}

// CollapseSpace replaces every run of whitespace with a single space
// and trims the result.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
