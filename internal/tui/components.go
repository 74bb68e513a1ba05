package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader returns the screen header: the mode label on the left and
// a muted subtitle after it.
func renderHeader(title, subtitle string, width int, st Styles) string {
	title = truncateEnd(title, width-2)
	if subtitle == "" {
		return st.Header.Render(title)
	}
	room := width - lipgloss.Width(title) - 3
	return st.Header.Render(title) + "  " + st.Muted.Render(truncateEnd(subtitle, room))
}

// renderCentered centers content within the given box.
func renderCentered(width, height int, content string) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// renderFooter is the reading speed and the key hints on one line.
func renderFooter(wpm int, backlight bool, help string, st Styles) string {
	status := fmt.Sprintf("%d wpm", wpm)
	if !backlight {
		status += " • " + MsgBacklightOffHint
	}
	return st.Muted.Render(status) + "  " + help
}
