package engine

import (
	"fmt"

	"github.com/pders01/skim/internal/rsvp"
)

// Frame is everything a renderer needs to draw one screen.
type Frame struct {
	State State
	// Header is "HEADLINE" or "ARTICLE" while presenting, empty otherwise.
	Header string

	Word      string
	Before    string
	Pivot     string
	After     string
	FocalOnly bool

	Feeds     []string
	FeedIndex int

	TitleIndex int
	TitleCount int
	// Waiting is set while an article body has been requested but not
	// received.
	Waiting bool

	WPM       int
	Backlight bool
	Exited    bool
}

// Snapshot captures the current screen.
func (e *Engine) Snapshot() Frame {
	f := Frame{
		State:      e.state,
		Feeds:      e.feeds.Names(),
		TitleCount: e.titles.Len(),
		WPM:        e.wpm,
		Backlight:  e.backlight,
		Exited:     e.exited,
	}
	f.FeedIndex, _ = e.feeds.Selected()
	f.TitleIndex, _ = e.titles.Current()

	switch e.state {
	case PresentingTitle:
		f.Header = "HEADLINE"
		f.FocalOnly = e.focalOnly
		f.Word = e.cursor.Word
	case PresentingArticle:
		f.Header = "ARTICLE"
		f.FocalOnly = e.focalOnly
		f.Word = e.cursor.Word
		f.Waiting = !e.article.Loaded()
	case PageNumberPause:
		f.Header = "HEADLINE"
		if e.pageShown {
			f.Word = PageLabel(f.TitleIndex, f.TitleCount)
		}
	}

	if f.FocalOnly {
		f.Word = ""
	}
	if f.Word != "" {
		f.Before, f.Pivot, f.After = rsvp.Split(f.Word)
	}
	return f
}

// PageLabel is the pseudo-word shown after a headline, 1-based.
func PageLabel(index, count int) string {
	return fmt.Sprintf("%d/%d", index+1, count)
}
