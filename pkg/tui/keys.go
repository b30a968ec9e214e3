package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Replace key.Binding
	Backup  key.Binding
	Skip    key.Binding
	Cycle   key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Replace: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "replace")),
		Backup:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "backup")),
		Skip:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
		Cycle:   key.NewBinding(key.WithKeys(" ", "tab"), key.WithHelp("space", "cycle")),
		Confirm: key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter", "link")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Replace, k.Backup, k.Skip, k.Confirm, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
