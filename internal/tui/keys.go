package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	NextSite key.Binding
	PrevSite key.Binding
	Site     key.Binding
	Refresh  key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Toggle:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "enable/disable")),
	NextSite: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next site")),
	PrevSite: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev site")),
	Site:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"), key.WithHelp("1-8", "pick site")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("j/k", "nav")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.NextSite, k.Site, k.Up, k.Open, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Refresh, k.Quit},
		{k.NextSite, k.PrevSite, k.Site},
		{k.Up, k.Down, k.Open},
	}
}

// disabledHelp lists the keys that still work while the plugin is off.
func (k keyMap) disabledHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Quit}
}
