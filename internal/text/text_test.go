package text

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"empty", "", 80, ""},
		{"short", "hello", 80, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello" + Ellipsis},
		{"zero limit", "abc", 0, Ellipsis},
		{"negative limit", "abc", -3, Ellipsis},
		{"multibyte", "日本語のテキスト", 3, "日本語" + Ellipsis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.limit); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncate_Length(t *testing.T) {
	for n := 0; n < 120; n += 7 {
		s := strings.Repeat("x", n)
		got := Truncate(s, DefaultLimit)
		if n <= DefaultLimit {
			if got != s {
				t.Errorf("n=%d: text changed", n)
			}
			continue
		}
		if utf8.RuneCountInString(got) != DefaultLimit+1 {
			t.Errorf("n=%d: got %d runes, want %d", n, utf8.RuneCountInString(got), DefaultLimit+1)
		}
		if !strings.HasSuffix(got, Ellipsis) {
			t.Errorf("n=%d: missing ellipsis", n)
		}
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  a \n\t  b  "); got != "a b" {
		t.Errorf("CollapseSpace() = %q, want %q", got, "a b")
	}
	if got := CollapseSpace(" \n "); got != "" {
		t.Errorf("CollapseSpace() = %q, want empty", got)
	}
}
