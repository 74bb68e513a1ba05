package engine

import (
	"strings"

	"github.com/pders01/skim/internal/protocol"
	"github.com/pders01/skim/internal/timers"
)

// selectFeed starts a fresh headline stream for the feed at idx. The
// source answers a selection with the first headline, so the selection
// doubles as the first title request.
func (e *Engine) selectFeed(idx int) {
	e.titles.Clear()
	e.article.Close()
	e.cursor.Reset()
	e.retries = 0
	e.navigating = false
	e.acquiring = true

	e.enter(Loading)
	e.out.Send(protocol.SelectFeed{Index: idx})
	e.armTimeout()
	e.log.Infof("selected feed %d %q", idx, e.feeds.Name(idx))
}

// requestTitle asks for the next headline and waits for a reply.
func (e *Engine) requestTitle() {
	e.out.Send(protocol.RequestNextTitle{})
	e.armTimeout()
}

func (e *Engine) armTimeout() {
	e.timers.Schedule(timers.RetryPoll, e.opts.RetryTimeout)
	e.poll = pollTimeout
}

func (e *Engine) armPacing() {
	e.timers.Schedule(timers.RetryPoll, e.opts.Pacing)
	e.poll = pollPacing
}

// requestArticle has no retry of its own. A lost reply leaves the article
// pending until the user backs out.
func (e *Engine) requestArticle(idx int) {
	e.out.Send(protocol.RequestArticle{Index: idx})
}

func (e *Engine) pollElapsed() {
	mode := e.poll
	e.poll = pollIdle

	switch mode {
	case pollPacing:
		if e.acquiring && !e.titles.Full() {
			e.requestTitle()
		}
	case pollTimeout:
		e.timedOut()
	}
}

func (e *Engine) timedOut() {
	if !e.acquiring {
		return
	}
	e.retries++
	e.log.Warnf("title request timed out (%d/%d)", e.retries, e.opts.RetryBudget)

	if e.retries < e.opts.RetryBudget {
		e.requestTitle()
		return
	}

	e.acquiring = false
	if e.titles.Len() > 0 {
		e.log.Infof("retry budget spent, keeping %d titles", e.titles.Len())
		return
	}
	e.showEnd()
}

func (e *Engine) titleArrived(text string) {
	if !e.acquiring || strings.TrimSpace(text) == "" {
		return
	}

	if err := e.titles.Append(strings.TrimSpace(text)); err != nil {
		e.acquiring = false
		e.log.Debugf("dropping title: %v", err)
		return
	}
	e.retries = 0
	e.timers.Cancel(timers.RetryPoll)
	e.poll = pollIdle

	if e.state == Loading {
		e.titles.SetCurrent(0)
		e.presentTitle()
	}

	if e.titles.Full() {
		e.acquiring = false
		return
	}
	if !e.navigating {
		e.armPacing()
	}
}

// pausePrefetch stops paced title requests while the user browses. A
// request already in flight keeps its timeout.
func (e *Engine) pausePrefetch() {
	e.navigating = true
	if e.poll == pollPacing {
		e.timers.Cancel(timers.RetryPoll)
		e.poll = pollIdle
	}
}

func (e *Engine) resumeAcquisition() {
	if e.acquiring && e.poll == pollIdle && !e.titles.Full() {
		e.armPacing()
	}
}

func (e *Engine) showEnd() {
	e.enter(EndScreen)
	e.cursor.Reset()
	if e.opts.EndClose > 0 {
		e.timers.Schedule(timers.EndClose, e.opts.EndClose)
	}
}
