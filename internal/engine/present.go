package engine

import (
	"github.com/pders01/skim/internal/rsvp"
	"github.com/pders01/skim/internal/timers"
)

// activeText is the text the cursor walks: the article body while reading
// one, the current headline otherwise.
func (e *Engine) activeText() string {
	if e.state == PresentingArticle {
		return e.article.Text()
	}
	return e.titles.CurrentText()
}

// presentTitle starts flashing the current headline from its first word.
func (e *Engine) presentTitle() {
	e.stopWords()
	e.enter(PresentingTitle)
	e.startWords()
}

// stopWords cancels the word timers of the text being replaced.
func (e *Engine) stopWords() {
	e.timers.Cancel(timers.IntroDelay)
	e.timers.Cancel(timers.WordAdvance)
}

// startWords rewinds the cursor over the active text and holds the focal
// marks alone for the intro delay before the first word shows.
func (e *Engine) startWords() {
	e.cursor.Reset()
	e.pageShown = false
	if !e.cursor.Load(e.activeText()) {
		e.endOfText()
		return
	}
	e.focalOnly = true
	e.timers.Schedule(timers.IntroDelay, e.opts.IntroDelay)
}

func (e *Engine) introElapsed() {
	if e.state != PresentingTitle && e.state != PresentingArticle {
		e.log.Warnf("intro delay fired in %s", e.state)
		return
	}
	e.focalOnly = false
	e.timers.Schedule(timers.WordAdvance, rsvp.DisplayDelay(e.cursor.Word, e.base))
}

func (e *Engine) advanceWord() {
	if e.state != PresentingTitle && e.state != PresentingArticle {
		e.log.Warnf("word advance fired in %s", e.state)
		return
	}
	if e.cursor.Advance(e.activeText()) {
		e.timers.Schedule(timers.WordAdvance, rsvp.DisplayDelay(e.cursor.Word, e.base))
		return
	}
	e.endOfText()
}

// endOfText rests on the current headline. An article that ran to its end
// never moves on to the next headline by itself.
func (e *Engine) endOfText() {
	if e.state == PresentingArticle {
		e.article.Close()
	}
	e.pause()
}

func (e *Engine) pause() {
	e.enter(PageNumberPause)
	e.cursor.Word = ""
	e.focalOnly = false
	e.pageShown = false
	e.timers.Schedule(timers.PageNumberPause, e.opts.PageNumberPause)

	if e.navigating {
		e.navigating = false
		e.resumeAcquisition()
	}
}

// startArticle switches into article mode for the current headline and
// asks the source for its body. Nothing is shown until the body arrives.
func (e *Engine) startArticle() bool {
	idx, ok := e.titles.Current()
	if !ok {
		return false
	}
	e.stopWords()
	e.enter(PresentingArticle)
	e.article.Open(idx)
	e.cursor.Reset()
	e.focalOnly = true
	e.pageShown = false
	e.requestArticle(idx)
	return true
}

// leaveArticle drops the article and shows its headline again before the
// page pause.
func (e *Engine) leaveArticle() {
	e.article.Close()
	e.presentTitle()
}
