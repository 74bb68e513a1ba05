package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/skim/internal/config"
)

const AppName = "skim"

// LogoLines is the canonical block-letter logo.
var LogoLines = []string{
	"▄▀▀▀▀ █  ▄▀ ▀█▀ █▄ ▄█",
	" ▀▀▀▄ █▀▄    █  █ ▀ █",
	"▀▀▀▀  ▀  ▀▀ ▀▀▀ ▀   ▀",
}

// BannerColors is the gradient applied to the logo lines.
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#FFA86B"),
	lipgloss.Color("#95E1D3"),
	lipgloss.Color("#4ECDC4"),
}

// Styles is the palette the reader draws with. It is derived from the
// [ui.colors] config section.
type Styles struct {
	Text   lipgloss.Style
	Pivot  lipgloss.Style
	Focal  lipgloss.Style
	Header lipgloss.Style
	Muted  lipgloss.Style
	// Selected marks the highlighted feed in the menu.
	Selected lipgloss.Style
	Help     lipgloss.Style
	End      lipgloss.Style
}

// NewStyles builds the lit palette.
func NewStyles(c config.UIColors) Styles {
	return Styles{
		Text:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Text)),
		Pivot:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Pivot)).Bold(true),
		Focal:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Focal)),
		Header:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.Header)).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Pivot)).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)).Italic(true),
		End:      lipgloss.NewStyle().Foreground(lipgloss.Color(c.Header)).Bold(true),
	}
}

// DimStyles is the palette used while the backlight is off: every
// element collapses onto the dim color and only the pivot keeps weight.
func DimStyles(c config.UIColors) Styles {
	dim := lipgloss.Color(c.Dim)
	plain := lipgloss.NewStyle().Foreground(dim)
	return Styles{
		Text:     plain,
		Pivot:    plain.Bold(true),
		Focal:    plain.Faint(true),
		Header:   plain,
		Muted:    plain.Faint(true),
		Selected: plain.Bold(true),
		Help:     plain.Faint(true),
		End:      plain.Bold(true),
	}
}

func renderLogo() string {
	lines := make([]string, 0, len(LogoLines))
	for i, line := range LogoLines {
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(true)
		lines = append(lines, style.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// ShowBanner writes the boxed logo with a version tagline to w.
func ShowBanner(w io.Writer, version string) {
	tagline := "    RSVP headline reader"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline = fmt.Sprintf("%s %s", tagline, version)
	}

	banner := lipgloss.JoinVertical(
		lipgloss.Center,
		renderLogo(),
		"",
		lipgloss.NewStyle().Foreground(BannerColors[2]).Render(tagline),
	)

	border := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	out := lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(1, 3).
		MarginTop(1).
		Render(banner)

	fmt.Fprintln(w, lipgloss.NewStyle().
		Width(60).
		Align(lipgloss.Center).
		Render(out))
}
