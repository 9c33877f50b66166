package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run blocks until the user exits the editor.
func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
