package rsvp

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultWPM is the reading speed used when nothing has been configured.
const DefaultWPM = 400

// longWordThreshold is the rune length after which words earn extra time.
const longWordThreshold = 8

// PivotIndex returns the rune index of the optimal recognition point for
// a word of the given length. The result is always within [0, length-1]
// and never above 4.
func PivotIndex(length int) int {
	var idx int
	switch {
	case length <= 1:
		return 0
	case length <= 5:
		idx = 1
	case length <= 9:
		idx = 2
	case length <= 13:
		idx = 3
	default:
		idx = 4
	}
	if idx > length-1 {
		idx = length - 1
	}
	return idx
}

// Split cuts word around its pivot rune. The boundaries match PivotIndex
// of the rune length exactly. An empty word yields three empty strings.
func Split(word string) (before, pivot, after string) {
	if word == "" {
		return "", "", ""
	}
	p := PivotIndex(utf8.RuneCountInString(word))
	n := 0
	for i, r := range word {
		if n == p {
			end := i + utf8.RuneLen(r)
			return word[:i], word[i:end], word[end:]
		}
		n++
	}
	return word, "", ""
}

// BaseDuration converts a words-per-minute rate into the display time of
// a plain word. Non-positive rates fall back to DefaultWPM.
func BaseDuration(wpm int) time.Duration {
	if wpm <= 0 {
		wpm = DefaultWPM
	}
	return time.Duration(60000/wpm) * time.Millisecond
}

// DisplayDelay returns how long word stays on screen given the base
// duration of a plain word.
//
// Sentence ends (. ! ?) triple the time, clause breaks (, : ; )) double
// it, and words holding a parenthesis or hyphen get half again as much.
// Words longer than eight runes then gain a tenth of base per extra rune.
func DisplayDelay(word string, base time.Duration) time.Duration {
	if word == "" {
		return base
	}

	d := base
	last, _ := utf8.DecodeLastRuneInString(word)
	switch {
	case strings.ContainsRune(".!?", last):
		d = base * 3
	case strings.ContainsRune(",:;)", last):
		d = base * 2
	case strings.ContainsAny(word, "(-"):
		d = base * 3 / 2
	}

	if n := utf8.RuneCountInString(word); n > longWordThreshold {
		d += base * time.Duration(n-longWordThreshold) / 10
	}
	return d
}
