package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the TUI.
type KeyMap struct {
	Quit      key.Binding
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	NextModel key.Binding
	PrevModel key.Binding
	Dismiss   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "predict"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		NextModel: key.NewBinding(
			key.WithKeys("right", "l", " "),
			key.WithHelp("→", "next model"),
		),
		PrevModel: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous model"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter/esc", "dismiss"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextField, k.NextModel, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.NextField, k.PrevField},
		{k.NextModel, k.PrevModel, k.Dismiss, k.Quit},
	}
}
