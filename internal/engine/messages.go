package engine

import (
	"github.com/pders01/skim/internal/protocol"
	"github.com/pders01/skim/internal/timers"
)

func (e *Engine) receive(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.FeedsCount:
		e.feeds.Reset(m.Count)
	case protocol.FeedName:
		if m.Name == "" {
			return
		}
		if err := e.feeds.Add(m.Name); err != nil {
			e.log.Debugf("dropping feed %q: %v", m.Name, err)
		}
	case protocol.TitleText:
		e.titleArrived(m.Text)
	case protocol.ArticleText:
		e.articleArrived(m.Text)
	case protocol.ConfigSessionOpened:
		e.configOpened()
	case protocol.ConfigSessionClosed:
		e.configClosed(m)
	default:
		e.log.Warnf("ignoring message %s", protocol.Describe(msg))
	}
}

// articleArrived accepts a body only for the article being waited on.
func (e *Engine) articleArrived(text string) {
	if e.state != PresentingArticle || !e.article.Active() || e.article.Loaded() {
		return
	}
	e.article.Fill(text)
	e.cursor.Reset()
	if !e.cursor.Load(e.article.Text()) {
		e.endOfText()
		return
	}
	e.focalOnly = true
	e.timers.Schedule(timers.IntroDelay, e.opts.IntroDelay)
}

func (e *Engine) configOpened() {
	e.timers.CancelAll()
	e.acquiring = false
	e.navigating = false
	e.article.Close()
	e.cursor.Reset()
	e.enter(ConfigWait)
}

func (e *Engine) configClosed(m protocol.ConfigSessionClosed) {
	if m.ReadingSpeedWPM != nil && *m.ReadingSpeedWPM > 0 {
		e.setSpeed(*m.ReadingSpeedWPM)
		e.persistSpeed(*m.ReadingSpeedWPM)
	}
	if m.Backlight != nil {
		e.backlight = *m.Backlight
		if e.settings != nil {
			if err := e.settings.SaveBacklight(e.backlight); err != nil {
				e.log.Warnf("saving backlight: %v", err)
			}
		}
	}
	e.goMenu()
}
