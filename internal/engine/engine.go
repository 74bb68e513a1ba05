// Package engine is the presentation state machine. It owns the catalog, the
// word cursor and the timer set, and it is driven one event at a time by
// button presses, content source messages and timer expiry.
package engine

import (
	"fmt"
	"time"

	"github.com/pders01/skim/internal/catalog"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/protocol"
	"github.com/pders01/skim/internal/rsvp"
	"github.com/pders01/skim/internal/timers"
)

// Settings persists reader preferences between runs.
type Settings interface {
	ReadingSpeed() (wpm int, ok bool, err error)
	SaveReadingSpeed(wpm int) error
	Backlight() (on bool, ok bool, err error)
	SaveBacklight(on bool) error
}

// Outbox delivers requests to the content source. Send must not block.
type Outbox interface {
	Send(req protocol.Request)
}

// ChanOutbox is an Outbox over a buffered channel. A full channel drops the
// request; the retry budget absorbs the loss.
type ChanOutbox chan<- protocol.Request

func (c ChanOutbox) Send(req protocol.Request) {
	select {
	case c <- req:
	default:
		debuglog.Warnf("outbox full, dropped %s", protocol.Describe(req))
	}
}

// Options tunes timing and limits.
type Options struct {
	IntroDelay      time.Duration
	PageNumberPause time.Duration
	EndClose        time.Duration
	RetryTimeout    time.Duration
	Pacing          time.Duration
	RetryBudget     int

	// DefaultWPM applies when Settings has no stored speed.
	DefaultWPM int
	// WPM, when positive, overrides and replaces the stored speed.
	WPM int

	Clock timers.Clock
	Trace func(timers.Event)
}

// DefaultOptions returns the stock timings.
func DefaultOptions() Options {
	return Options{
		IntroDelay:      2 * time.Second,
		PageNumberPause: time.Second,
		EndClose:        3 * time.Second,
		RetryTimeout:    8 * time.Second,
		Pacing:          100 * time.Millisecond,
		RetryBudget:     3,
		DefaultWPM:      rsvp.DefaultWPM,
	}
}

type pollMode int

const (
	pollIdle pollMode = iota
	pollPacing
	pollTimeout
)

// Engine is the whole application state. It is not safe for concurrent
// use; Run is the only goroutine that should touch it.
type Engine struct {
	opts     Options
	timers   *timers.Set
	out      Outbox
	settings Settings
	onFrame  func(Frame)
	log      *debuglog.FieldLogger

	state   State
	feeds   catalog.Feeds
	titles  catalog.Titles
	article catalog.Article
	cursor  rsvp.Cursor

	// focalOnly hides the word during the intro delay.
	focalOnly bool
	// pageShown is set once the page pause has elapsed.
	pageShown bool

	retries    int
	poll       pollMode
	acquiring  bool
	navigating bool

	wpm       int
	base      time.Duration
	backlight bool
	exited    bool
}

// New builds an engine in the Menu state.
func New(opts Options, out Outbox, settings Settings) *Engine {
	if opts.RetryBudget <= 0 {
		opts.RetryBudget = 3
	}
	if opts.DefaultWPM <= 0 {
		opts.DefaultWPM = rsvp.DefaultWPM
	}

	var topts []timers.Option
	if opts.Trace != nil {
		topts = append(topts, timers.WithTrace(opts.Trace))
	}

	e := &Engine{
		opts:      opts,
		timers:    timers.New(opts.Clock, topts...),
		out:       out,
		settings:  settings,
		log:       debuglog.WithFields(map[string]any{"component": "engine"}),
		state:     Menu,
		backlight: true,
	}
	e.loadSettings()
	return e
}

func (e *Engine) loadSettings() {
	wpm := e.opts.DefaultWPM
	if e.settings != nil {
		if stored, ok, err := e.settings.ReadingSpeed(); err != nil {
			e.log.Warnf("loading reading speed: %v", err)
		} else if ok && stored > 0 {
			wpm = stored
		}
		if on, ok, err := e.settings.Backlight(); err != nil {
			e.log.Warnf("loading backlight: %v", err)
		} else if ok {
			e.backlight = on
		}
	}
	if e.opts.WPM > 0 {
		wpm = e.opts.WPM
		e.persistSpeed(wpm)
	}
	e.setSpeed(wpm)
}

func (e *Engine) setSpeed(wpm int) {
	e.wpm = wpm
	e.base = rsvp.BaseDuration(wpm)
	e.log.Infof("reading speed %d wpm (%s per word)", wpm, e.base)
}

func (e *Engine) persistSpeed(wpm int) {
	if e.settings == nil {
		return
	}
	if err := e.settings.SaveReadingSpeed(wpm); err != nil {
		e.log.Warnf("saving reading speed: %v", err)
	}
}

// OnFrame registers fn to receive a snapshot after every handled event.
func (e *Engine) OnFrame(fn func(Frame)) { e.onFrame = fn }

// State returns the current screen mode.
func (e *Engine) State() State { return e.state }

// Exited reports whether the user asked to leave the application.
func (e *Engine) Exited() bool { return e.exited }

// WPM returns the active reading speed.
func (e *Engine) WPM() int { return e.wpm }

// Timers exposes the timer set for inspection.
func (e *Engine) Timers() *timers.Set { return e.timers }

// enter switches to s after cancelling every slot s does not own.
func (e *Engine) enter(s State) {
	e.timers.CancelExcept(ownedSlots(s)...)
	if !e.timers.Pending(timers.RetryPoll) {
		e.poll = pollIdle
	}
	if s != e.state {
		e.log.Debugf("state %s -> %s", e.state, s)
	}
	e.state = s
}

// exit leaves the application.
func (e *Engine) exit() {
	e.timers.CancelAll()
	e.poll = pollIdle
	e.exited = true
	e.log.Infof("exit from %s", e.state)
}

// HandleAction processes one button press.
func (e *Engine) HandleAction(a Action) {
	if e.exited {
		return
	}
	e.log.Debugf("action %s in %s", a, e.state)
	e.navigate(a)
	e.publish()
}

// HandleMessage processes one message from the content source.
func (e *Engine) HandleMessage(msg protocol.Message) {
	if e.exited || msg == nil {
		return
	}
	e.log.Debugf("message %s in %s", protocol.Describe(msg), e.state)
	e.receive(msg)
	e.publish()
}

// Tick fires every timer due at or before now, earliest first.
func (e *Engine) Tick(now time.Time) {
	fired := false
	for !e.exited {
		h, ok := e.timers.PopDue(now)
		if !ok {
			break
		}
		e.fire(h.Slot)
		fired = true
	}
	if fired {
		e.publish()
	}
}

func (e *Engine) fire(slot timers.Slot) {
	e.log.Debugf("timer %s fired in %s", slot, e.state)
	switch slot {
	case timers.IntroDelay:
		e.introElapsed()
	case timers.WordAdvance:
		e.advanceWord()
	case timers.RetryPoll:
		e.pollElapsed()
	case timers.PageNumberPause:
		e.pageShown = true
	case timers.EndClose:
		e.exit()
	default:
		panic(fmt.Sprintf("engine: unknown timer slot %d", slot))
	}
}

func (e *Engine) publish() {
	if e.onFrame != nil {
		e.onFrame(e.Snapshot())
	}
}
