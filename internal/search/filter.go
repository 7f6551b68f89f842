// Package search filters picker items with fuzzy matching.
package search

import (
	"strings"

	"github.com/davidpaquet/ccsession/internal/finder"
	"github.com/sahilm/fuzzy"
)

// Result is one item that matched a query.
type Result struct {
	Index          int   // Position in the filtered slice
	Score          int   // Higher is better
	MatchedIndexes []int // Byte offsets in Word that matched
}

type itemSource []finder.Item

func (s itemSource) String(i int) string { return s[i].Word }

func (s itemSource) Len() int { return len(s) }

// Filter returns the items matching query, best first. An empty query
// matches every item in its original order.
func Filter(query string, items []finder.Item) []Result {
	if strings.TrimSpace(query) == "" {
		results := make([]Result, len(items))
		for i := range items {
			results[i] = Result{Index: i, Score: 1}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, itemSource(items))
	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Index:          m.Index,
			Score:          m.Score,
			MatchedIndexes: m.MatchedIndexes,
		}
	}
	return results
}

// HighlightText applies highlightStyle to the characters starting at the
// byte offsets in indices, as reported by Filter.
func HighlightText(text string, indices []int, highlightStyle func(string) string) string {
	if len(indices) == 0 {
		return text
	}

	marked := make(map[int]bool, len(indices))
	for _, idx := range indices {
		marked[idx] = true
	}

	var b strings.Builder
	for i, r := range text {
		if marked[i] {
			b.WriteString(highlightStyle(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
