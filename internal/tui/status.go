package tui

// Canonical short status lines used across the reader.
const (
	MsgNoFeeds          = "No feeds yet"
	MsgLoading          = "Loading…"
	MsgLoadingArticle   = "Loading article…"
	MsgWaitingSettings  = "Waiting for settings…"
	MsgEnd              = "END"
	MsgBacklightOffHint = "backlight off"
)
