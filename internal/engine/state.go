package engine

import "github.com/pders01/skim/internal/timers"

// State is the screen mode. Exactly one is active at a time.
type State int

const (
	Menu State = iota
	Loading
	PresentingTitle
	PresentingArticle
	PageNumberPause
	EndScreen
	ConfigWait
)

func (s State) String() string {
	switch s {
	case Menu:
		return "menu"
	case Loading:
		return "loading"
	case PresentingTitle:
		return "presenting_title"
	case PresentingArticle:
		return "presenting_article"
	case PageNumberPause:
		return "page_number_pause"
	case EndScreen:
		return "end_screen"
	case ConfigWait:
		return "config_wait"
	default:
		return "unknown"
	}
}

// ownedSlots lists the timers that may stay armed while in s. Entering a
// state cancels every other slot.
func ownedSlots(s State) []timers.Slot {
	switch s {
	case Loading:
		return []timers.Slot{timers.RetryPoll}
	case PresentingTitle, PresentingArticle:
		return []timers.Slot{timers.IntroDelay, timers.WordAdvance, timers.RetryPoll}
	case PageNumberPause:
		return []timers.Slot{timers.PageNumberPause, timers.RetryPoll}
	case EndScreen:
		return []timers.Slot{timers.EndClose}
	default:
		return nil
	}
}

// Action is a logical button press.
type Action int

const (
	Select Action = iota
	Up
	Down
	Back
)

func (a Action) String() string {
	switch a {
	case Select:
		return "select"
	case Up:
		return "up"
	case Down:
		return "down"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}
