package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open     key.Binding
	Save     key.Binding
	SaveAs   key.Binding
	Preview  key.Binding
	About    key.Binding
	Copy     key.Binding
	External key.Binding
	Quit     key.Binding
}

// Bindings avoid the textarea's own emacs-style keys (ctrl+p/n/f/b/a/e/k/u/w/d/h/t/v).
func defaultKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		SaveAs: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "save as"),
		),
		Preview: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "preview"),
		),
		About: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "about"),
		),
		Copy: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("f3", "copy all"),
		),
		External: key.NewBinding(
			key.WithKeys("f4"),
			key.WithHelp("f4", "$EDITOR"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("ctrl+q", "exit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Save, k.SaveAs, k.Preview, k.Copy, k.External, k.About, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Save, k.SaveAs},
		{k.Preview, k.Copy, k.External},
		{k.About, k.Quit},
	}
}
