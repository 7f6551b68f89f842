package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davidpaquet/ccsession/internal/text"
)

func truncateRunes(s string, width int) string {
	return text.Truncate(s, max(width, 1))
}

func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{}
	}

	lines := []string{}
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if utf8.RuneCountInString(currentLine)+1+utf8.RuneCountInString(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func getRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return relativeTime(time.Since(t))
}

func relativeTime(diff time.Duration) string {
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/(24*7)), "week")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/(24*30)), "month")
	default:
		return plural(int(diff.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
