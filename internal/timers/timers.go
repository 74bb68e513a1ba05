// Package timers implements a fixed set of named, single-shot timer slots.
//
// A slot holds at most one pending deadline. Scheduling into an occupied
// slot cancels the occupant first, so two callbacks for the same slot can
// never be live together. The set does not run anything by itself: the
// owner asks for the next deadline, waits for it, and claims due handles.
package timers

import (
	"time"
)

// Slot names one timer.
type Slot int

const (
	IntroDelay Slot = iota
	WordAdvance
	RetryPoll
	EndClose
	PageNumberPause
	numSlots
)

// Slots lists every slot in declaration order.
var Slots = [...]Slot{IntroDelay, WordAdvance, RetryPoll, EndClose, PageNumberPause}

func (s Slot) String() string {
	switch s {
	case IntroDelay:
		return "intro_delay"
	case WordAdvance:
		return "word_advance"
	case RetryPoll:
		return "retry_poll"
	case EndClose:
		return "end_close"
	case PageNumberPause:
		return "page_number_pause"
	default:
		return "unknown"
	}
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// Handle identifies one scheduling of a slot. Handles are never reused, so
// a stale handle can always be told apart from the current occupant.
type Handle struct {
	Slot Slot
	gen  uint64
}

// Valid reports whether h came from Schedule.
func (h Handle) Valid() bool { return h.gen != 0 }

// EventKind classifies trace events.
type EventKind int

const (
	Armed EventKind = iota
	Canceled
	Fired
)

func (k EventKind) String() string {
	switch k {
	case Armed:
		return "armed"
	case Canceled:
		return "canceled"
	case Fired:
		return "fired"
	default:
		return "unknown"
	}
}

// Event reports a change to a slot.
type Event struct {
	Kind   EventKind
	Handle Handle
	Due    time.Time
}

type entry struct {
	gen uint64
	due time.Time
}

// Set is the timer set. It is not safe for concurrent use; the owning event
// loop is its only caller.
type Set struct {
	clock Clock
	slots [numSlots]entry
	gen   uint64
	trace func(Event)
}

// Option configures a Set.
type Option func(*Set)

// WithTrace installs a hook called on every arm, cancel and fire.
func WithTrace(fn func(Event)) Option {
	return func(s *Set) { s.trace = fn }
}

// New creates an empty set reading time from clock.
func New(clock Clock, opts ...Option) *Set {
	if clock == nil {
		clock = SystemClock
	}
	s := &Set{clock: clock}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the set's current time.
func (s *Set) Now() time.Time { return s.clock.Now() }

// Schedule arms slot to fire after d, replacing any pending occupant.
func (s *Set) Schedule(slot Slot, d time.Duration) Handle {
	s.Cancel(slot)
	if d < 0 {
		d = 0
	}
	s.gen++
	e := entry{gen: s.gen, due: s.clock.Now().Add(d)}
	s.slots[slot] = e
	h := Handle{Slot: slot, gen: e.gen}
	s.emit(Armed, h, e.due)
	return h
}

// Cancel disarms slot. It reports whether anything was pending.
func (s *Set) Cancel(slot Slot) bool {
	e := s.slots[slot]
	if e.gen == 0 {
		return false
	}
	s.slots[slot] = entry{}
	s.emit(Canceled, Handle{Slot: slot, gen: e.gen}, e.due)
	return true
}

// CancelAll disarms every slot.
func (s *Set) CancelAll() {
	for _, slot := range Slots {
		s.Cancel(slot)
	}
}

// CancelExcept disarms every slot not listed in keep.
func (s *Set) CancelExcept(keep ...Slot) {
	for _, slot := range Slots {
		kept := false
		for _, k := range keep {
			if k == slot {
				kept = true
				break
			}
		}
		if !kept {
			s.Cancel(slot)
		}
	}
}

// Pending reports whether slot holds a live deadline.
func (s *Set) Pending(slot Slot) bool {
	return s.slots[slot].gen != 0
}

// Due returns the deadline of slot, if armed.
func (s *Set) Due(slot Slot) (time.Time, bool) {
	e := s.slots[slot]
	return e.due, e.gen != 0
}

// Live reports whether h is still the pending occupant of its slot.
func (s *Set) Live(h Handle) bool {
	return h.gen != 0 && s.slots[h.Slot].gen == h.gen
}

// Next returns the earliest pending deadline. Equal deadlines resolve to
// the slot that was scheduled first.
func (s *Set) Next() (Handle, time.Time, bool) {
	var (
		best  entry
		slot  Slot
		found bool
	)
	for _, sl := range Slots {
		e := s.slots[sl]
		if e.gen == 0 {
			continue
		}
		if !found || e.due.Before(best.due) || (e.due.Equal(best.due) && e.gen < best.gen) {
			best, slot, found = e, sl, true
		}
	}
	if !found {
		return Handle{}, time.Time{}, false
	}
	return Handle{Slot: slot, gen: best.gen}, best.due, true
}

// Claim disarms h if it is still live and reports whether it was. The
// caller runs the slot's callback only when Claim returns true.
func (s *Set) Claim(h Handle) bool {
	if !s.Live(h) {
		return false
	}
	e := s.slots[h.Slot]
	s.slots[h.Slot] = entry{}
	s.emit(Fired, h, e.due)
	return true
}

// PopDue claims the earliest handle whose deadline is not after now.
func (s *Set) PopDue(now time.Time) (Handle, bool) {
	h, due, ok := s.Next()
	if !ok || due.After(now) {
		return Handle{}, false
	}
	s.Claim(h)
	return h, true
}

func (s *Set) emit(kind EventKind, h Handle, due time.Time) {
	if s.trace != nil {
		s.trace(Event{Kind: kind, Handle: h, Due: due})
	}
}
