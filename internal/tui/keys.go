package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap implements help.KeyMap.
type keyMap struct {
	Details  key.Binding
	Graphs   key.Binding
	Settings key.Binding
	Next     key.Binding
	Prev     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Next, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Details, k.Graphs, k.Settings},
		{k.Next, k.Prev},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Details:  key.NewBinding(key.WithKeys("1", "d"), key.WithHelp("1/d", "details")),
	Graphs:   key.NewBinding(key.WithKeys("2", "g"), key.WithHelp("2/g", "graphs")),
	Settings: key.NewBinding(key.WithKeys("3", "s"), key.WithHelp("3/s", "settings")),
	Next:     key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab", "next screen")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab", "prev screen")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
