// Package rsvp holds the word segmentation and timing rules used to flash
// text one word at a time.
package rsvp

// MaxWordLen is the longest word, in runes, handed to the display.
// Longer words are cut, not rejected.
const MaxWordLen = 31

func isDelimiter(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

// ExtractWord returns the index-th whitespace delimited word of text.
// Runs of delimiters never produce empty words. ok is false once index
// runs past the last word, and the returned word is then empty.
func ExtractWord(text string, index int) (word string, ok bool) {
	if text == "" || index < 0 {
		return "", false
	}

	count := 0
	start := -1
	for i, r := range text {
		if isDelimiter(r) {
			if start >= 0 {
				if count == index {
					return truncateRunes(text[start:i], MaxWordLen), true
				}
				count++
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}

	if start >= 0 && count == index {
		return truncateRunes(text[start:], MaxWordLen), true
	}
	return "", false
}

// CountWords reports how many words ExtractWord can produce for text.
func CountWords(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		if isDelimiter(r) {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// Truncate cuts s to at most limit runes. It never splits a rune.
func Truncate(s string, limit int) string {
	return truncateRunes(s, limit)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

// Cursor walks the words of one text. The owner resets it whenever the
// text it points into changes.
type Cursor struct {
	Index int
	Word  string
}

// Reset rewinds the cursor to the first word and clears the current word.
func (c *Cursor) Reset() {
	c.Index = 0
	c.Word = ""
}

// Load extracts the word at the current index. It reports false at the
// end of text, leaving Word empty.
func (c *Cursor) Load(text string) bool {
	w, ok := ExtractWord(text, c.Index)
	c.Word = w
	return ok
}

// Advance moves to the next word and loads it.
func (c *Cursor) Advance(text string) bool {
	c.Index++
	return c.Load(text)
}
