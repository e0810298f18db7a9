package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Interrupt key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Interrupt: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "interruption"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Interrupt, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Interrupt, k.Help, k.Quit},
	}
}
