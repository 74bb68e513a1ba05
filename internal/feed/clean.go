package feed

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	// MaxDescriptionLen is the longest description kept in full.
	MaxDescriptionLen = 500
	descriptionCut    = MaxDescriptionLen - len(ellipsis)
	ellipsis          = "..."
)

var strict = bluemonday.StrictPolicy()

// Clean turns feed markup into plain text: tags are dropped, entities are
// decoded and runs of whitespace collapse to one space.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	text := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// ShortenDescription cuts text longer than MaxDescriptionLen runes and
// marks the cut with an ellipsis.
func ShortenDescription(s string) string {
	if utf8.RuneCountInString(s) <= MaxDescriptionLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:descriptionCut]) + ellipsis
}
