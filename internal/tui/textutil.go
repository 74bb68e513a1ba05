package tui

import "github.com/mattn/go-runewidth"

// truncateEnd shortens s to at most limit display cells, appending an
// ellipsis if truncation occurs.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return runewidth.Truncate(s, limit, "…")
}
