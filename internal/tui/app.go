package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/engine"
)

// FrameMsg carries an engine snapshot into the program. The engine runs
// on its own goroutine and forwards frames with Program.Send.
type FrameMsg struct {
	Frame engine.Frame
}

// App renders engine frames and turns key presses into button actions.
// It holds no reader state of its own.
type App struct {
	keys     KeyMap
	lit, dim Styles
	actions  chan<- engine.Action

	frame engine.Frame
	ready bool

	spinner spinner.Model
	help    help.Model
	width   int
	height  int
}

// NewApp builds the program model. Button presses are offered to actions
// without blocking.
func NewApp(cfg *config.Config, actions chan<- engine.Action) *App {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.UI.Colors.Focal))

	return &App{
		keys:    NewKeyMap(cfg.Keys),
		lit:     NewStyles(cfg.UI.Colors),
		dim:     DimStyles(cfg.UI.Colors),
		actions: actions,
		spinner: sp,
		help:    help.New(),
	}
}

func (a *App) Init() tea.Cmd {
	return a.spinner.Tick
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case FrameMsg:
		a.frame = msg.Frame
		a.ready = true
		if a.frame.Exited {
			return a, tea.Quit
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}
	if action, ok := a.keys.Action(msg); ok {
		a.press(action)
	}
	return a, nil
}

func (a *App) press(action engine.Action) {
	select {
	case a.actions <- action:
	default:
		debuglog.Warnf("tui: input queue full, dropped %s", action)
	}
}

func (a *App) styles() Styles {
	if a.ready && !a.frame.Backlight {
		return a.dim
	}
	return a.lit
}

func (a *App) View() string {
	st := a.styles()
	if !a.ready {
		return renderCentered(a.width, a.height, lipgloss.JoinVertical(
			lipgloss.Center,
			renderLogo(),
			"",
			st.Muted.Render(MsgLoading),
		))
	}

	width := a.width
	if width <= 0 {
		width = 80
	}
	bodyHeight := a.height - 3
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	title, subtitle := a.headerText()
	body := a.body(st, width, bodyHeight)
	body = lipgloss.PlaceVertical(bodyHeight, lipgloss.Center, body)

	footer := renderFooter(a.frame.WPM, a.frame.Backlight, a.help.View(a.keys), st)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderHeader(title, subtitle, width, st),
		body,
		footer,
	)
}

func (a *App) feedName() string {
	f := a.frame
	if f.FeedIndex < 0 || f.FeedIndex >= len(f.Feeds) {
		return ""
	}
	return f.Feeds[f.FeedIndex]
}

func (a *App) headerText() (string, string) {
	f := a.frame
	switch f.State {
	case engine.Menu:
		return AppName, fmt.Sprintf("%d feeds", len(f.Feeds))
	case engine.PresentingTitle, engine.PresentingArticle, engine.PageNumberPause:
		return f.Header, fmt.Sprintf("%s • %s", a.feedName(), engine.PageLabel(f.TitleIndex, f.TitleCount))
	case engine.Loading:
		return AppName, a.feedName()
	default:
		return AppName, ""
	}
}

func (a *App) body(st Styles, width, height int) string {
	f := a.frame
	switch f.State {
	case engine.Menu:
		return a.menu(st, width, height)
	case engine.Loading:
		return a.waiting(st, width, MsgLoading)
	case engine.ConfigWait:
		return a.waiting(st, width, MsgWaitingSettings)
	case engine.EndScreen:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, st.End.Render(MsgEnd))
	case engine.PresentingArticle:
		if f.Waiting {
			return a.waiting(st, width, MsgLoadingArticle)
		}
		return renderReadout(f.Before, f.Pivot, f.After, pivotColumn(width), st)
	case engine.PresentingTitle, engine.PageNumberPause:
		return renderReadout(f.Before, f.Pivot, f.After, pivotColumn(width), st)
	default:
		return ""
	}
}

func (a *App) waiting(st Styles, width int, text string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, a.spinner.View()+" "+st.Muted.Render(text))
}

func (a *App) menu(st Styles, width, height int) string {
	f := a.frame
	if len(f.Feeds) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, st.Muted.Render(MsgNoFeeds))
	}

	start, end := visibleRange(len(f.Feeds), f.FeedIndex, height)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		name := truncateEnd(f.Feeds[i], width-4)
		if i == f.FeedIndex {
			rows = append(rows, st.Selected.Render("› "+name))
			continue
		}
		rows = append(rows, st.Text.Render("  "+name))
	}
	return strings.Join(rows, "\n")
}

// visibleRange returns the window of n rows of at most height lines that
// keeps sel in view.
func visibleRange(n, sel, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := sel - height/2
	if start < 0 {
		start = 0
	}
	if start+height > n {
		start = n - height
	}
	return start, start + height
}
