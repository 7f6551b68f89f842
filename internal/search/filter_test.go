package search

import (
	"testing"

	"github.com/davidpaquet/ccsession/internal/finder"
)

func items(words ...string) []finder.Item {
	out := make([]finder.Item, len(words))
	for i, w := range words {
		out[i] = finder.Item{Word: w}
	}
	return out
}

func TestFilter_EmptyQuery(t *testing.T) {
	got := Filter("  ", items("a", "b", "c"))
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	for i, r := range got {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
	}
}

func TestFilter_Fuzzy(t *testing.T) {
	list := items(
		"2025-06-01 10:00:00: fix the build",
		"2025-06-02 11:00:00: write release notes",
		"2025-06-03 12:00:00: refactor the parser",
	)
	got := Filter("parser", list)
	if len(got) != 1 || got[0].Index != 2 {
		t.Fatalf("Filter(parser) = %+v, want only index 2", got)
	}
	if len(got[0].MatchedIndexes) != len("parser") {
		t.Errorf("MatchedIndexes = %v", got[0].MatchedIndexes)
	}

	if got := Filter("zzz", list); len(got) != 0 {
		t.Errorf("Filter(zzz) = %+v, want none", got)
	}
}

func TestHighlightText(t *testing.T) {
	wrap := func(s string) string { return "[" + s + "]" }
	if got := HighlightText("héllo", []int{1, 5}, wrap); got != "h[é]ll[o]" {
		t.Errorf("HighlightText() = %q", got)
	}
	if got := HighlightText("abc", nil, wrap); got != "abc" {
		t.Errorf("HighlightText() = %q", got)
	}
}

func TestHighlightText_MultibyteBeforeMatch(t *testing.T) {
	word := "2025-06-01 10:00:00: 日本語 fix"
	got := Filter("fix", items(word))
	if len(got) != 1 {
		t.Fatalf("Filter(fix) = %+v, want one match", got)
	}
	wrap := func(s string) string { return "[" + s + "]" }
	want := "2025-06-01 10:00:00: 日本語 [f][i][x]"
	if hl := HighlightText(word, got[0].MatchedIndexes, wrap); hl != want {
		t.Errorf("HighlightText() = %q, want %q", hl, want)
	}
}
