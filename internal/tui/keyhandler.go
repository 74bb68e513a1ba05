package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/engine"
)

// KeyMap binds terminal keys to the reader's four buttons plus quit.
type KeyMap struct {
	Select key.Binding
	Up     key.Binding
	Down   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// NewKeyMap parses the comma separated bindings from the [keys] config
// section. "space" is accepted as a name for the space bar.
func NewKeyMap(cfg config.KeyConfig) KeyMap {
	b := cfg.Bindings
	return KeyMap{
		Select: binding(b.Select, "select"),
		Up:     binding(b.Up, "prev"),
		Down:   binding(b.Down, "next"),
		Back:   binding(b.Back, "back"),
		Quit:   binding(b.Quit, "quit"),
	}
}

func binding(list, desc string) key.Binding {
	keys := parseKeys(list)
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	label := keys[0]
	if label == " " {
		label = "space"
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

func parseKeys(list string) []string {
	var keys []string
	for _, k := range strings.Split(list, ",") {
		k = strings.TrimSpace(k)
		switch {
		case k == "":
			continue
		case strings.EqualFold(k, "space"):
			k = " "
		}
		keys = append(keys, k)
	}
	return keys
}

// Action maps a key press to a button. ok is false for unbound keys.
func (k KeyMap) Action(msg tea.KeyMsg) (engine.Action, bool) {
	switch {
	case key.Matches(msg, k.Select):
		return engine.Select, true
	case key.Matches(msg, k.Up):
		return engine.Up, true
	case key.Matches(msg, k.Down):
		return engine.Down, true
	case key.Matches(msg, k.Back):
		return engine.Back, true
	default:
		return 0, false
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Select, k.Back}, {k.Quit}}
}
