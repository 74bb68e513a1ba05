// Package catalog holds the bounded collections the reader presents: feed
// names, headline titles and the one article being read.
package catalog

import (
	"errors"

	"github.com/pders01/skim/internal/rsvp"
)

const (
	MaxFeeds      = 20
	MaxTitles     = 50
	MaxTitleLen   = 103
	MaxArticleLen = 511
)

// ErrFull is returned when appending to a collection at capacity.
var ErrFull = errors.New("catalog full")

// Feeds is the ordered list of feed names offered in the menu.
type Feeds struct {
	names    []string
	selected int
	expected int
}

// Reset empties the catalog and records how many names the source said it
// would send. The selection moves back to the first entry.
func (f *Feeds) Reset(expected int) {
	f.names = f.names[:0]
	f.selected = 0
	if expected < 0 {
		expected = 0
	}
	f.expected = expected
}

// Add appends a name in arrival order.
func (f *Feeds) Add(name string) error {
	if len(f.names) >= MaxFeeds {
		return ErrFull
	}
	f.names = append(f.names, name)
	return nil
}

func (f *Feeds) Len() int { return len(f.names) }

// Expected is the count announced by the last Reset.
func (f *Feeds) Expected() int { return f.expected }

// Names returns a copy of the names.
func (f *Feeds) Names() []string {
	return append([]string(nil), f.names...)
}

// Name returns the i-th name, or "" when out of range.
func (f *Feeds) Name(i int) string {
	if i < 0 || i >= len(f.names) {
		return ""
	}
	return f.names[i]
}

// Selected returns the highlighted index. ok is false while empty.
func (f *Feeds) Selected() (int, bool) {
	if len(f.names) == 0 {
		return 0, false
	}
	return f.selected, true
}

// Move shifts the highlight by delta, wrapping at both ends.
func (f *Feeds) Move(delta int) {
	if len(f.names) == 0 {
		return
	}
	f.selected = wrap(f.selected+delta, len(f.names))
}

// Titles is the append-only list of headlines for the selected feed.
type Titles struct {
	items   []string
	current int
	hasCur  bool
}

// Clear drops every title and the current index.
func (t *Titles) Clear() {
	t.items = t.items[:0]
	t.current = 0
	t.hasCur = false
}

// Append adds a title, cut to MaxTitleLen runes.
func (t *Titles) Append(title string) error {
	if len(t.items) >= MaxTitles {
		return ErrFull
	}
	t.items = append(t.items, rsvp.Truncate(title, MaxTitleLen))
	return nil
}

func (t *Titles) Len() int { return len(t.items) }

// Full reports whether the list reached capacity.
func (t *Titles) Full() bool { return len(t.items) >= MaxTitles }

// At returns the i-th title, or "" when out of range.
func (t *Titles) At(i int) string {
	if i < 0 || i >= len(t.items) {
		return ""
	}
	return t.items[i]
}

// Current returns the current index. ok is false when none is set.
func (t *Titles) Current() (int, bool) {
	return t.current, t.hasCur
}

// CurrentText returns the current title, or "" when none is set.
func (t *Titles) CurrentText() string {
	if !t.hasCur {
		return ""
	}
	return t.items[t.current]
}

// SetCurrent points at index i. Out of range indexes are refused.
func (t *Titles) SetCurrent(i int) bool {
	if i < 0 || i >= len(t.items) {
		return false
	}
	t.current = i
	t.hasCur = true
	return true
}

// Move shifts the current index by delta with wraparound.
func (t *Titles) Move(delta int) bool {
	if len(t.items) == 0 {
		return false
	}
	if !t.hasCur {
		return t.SetCurrent(0)
	}
	t.current = wrap(t.current+delta, len(t.items))
	return true
}

// Article is the single article buffer.
type Article struct {
	text   string
	title  int
	active bool
}

// Open switches into article mode for the title at index, dropping any
// previous body. The body arrives later through Fill.
func (a *Article) Open(title int) {
	a.text = ""
	a.title = title
	a.active = true
}

// Fill stores the body, cut to MaxArticleLen runes.
func (a *Article) Fill(text string) {
	a.text = rsvp.Truncate(text, MaxArticleLen)
}

// Close leaves article mode and clears the buffer.
func (a *Article) Close() {
	a.text = ""
	a.title = 0
	a.active = false
}

func (a *Article) Active() bool { return a.active }
func (a *Article) Text() string { return a.text }
func (a *Article) Title() int   { return a.title }

// Loaded reports whether a body has arrived for the open article.
func (a *Article) Loaded() bool { return a.active && a.text != "" }

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
