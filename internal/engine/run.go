package engine

import (
	"context"
	"time"

	"github.com/pders01/skim/internal/protocol"
)

// Run drives the engine from inbox messages, button actions and its own
// timers until ctx is done or the user exits. Closed channels are ignored.
func (e *Engine) Run(ctx context.Context, inbox <-chan protocol.Message, actions <-chan Action) error {
	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	defer timer.Stop()

	e.publish()
	for !e.exited {
		var wake <-chan time.Time
		if _, due, ok := e.timers.Next(); ok {
			d := due.Sub(e.timers.Now())
			if d < 0 {
				d = 0
			}
			timer.Reset(d)
			wake = timer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-inbox:
			if !ok {
				inbox = nil
				break
			}
			e.HandleMessage(msg)
		case a, ok := <-actions:
			if !ok {
				actions = nil
				break
			}
			e.HandleAction(a)
		case <-wake:
			e.Tick(e.timers.Now())
		}
		stopTimer(timer)
	}
	return nil
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
