package tui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"bookscript/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type externalEditDoneMsg struct {
	path string
	err  error
}

// externalEditorCommand returns argv for $VISUAL, then $EDITOR, then vi.
func externalEditorCommand(getenv func(string) string) []string {
	for _, k := range []string{"VISUAL", "EDITOR"} {
		if args := splitShellWords(strings.TrimSpace(getenv(k))); len(args) > 0 {
			return args
		}
	}
	return []string{"vi"}
}

// editExternally hands the current document to the user's editor. The TUI is suspended
// while the editor runs; the autosave loop keeps snapshotting the pre-edit text.
func (m *appModel) editExternally() (tea.Cmd, error) {
	f, err := os.CreateTemp("", "bookscript-*.bks")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	_ = f.Close()

	if err := store.SaveText(path, m.sess.Buffer().Snapshot()); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	args := externalEditorCommand(os.Getenv)
	cmd := exec.Command(args[0], append(args[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return externalEditDoneMsg{path: path, err: err}
	}), nil
}

func (m *appModel) applyExternalEdit(msg externalEditDoneMsg) {
	defer func() { _ = os.Remove(msg.path) }()

	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Editor failed: %v", msg.err), true)
		return
	}
	after, err := store.LoadText(msg.path)
	if err != nil {
		m.setStatus(fmt.Sprintf("Error reading edited text: %v", err), true)
		return
	}
	if after == m.sess.Buffer().Snapshot() {
		m.setStatus("No changes from external editor", false)
		return
	}
	m.sess.Buffer().Replace(after)
	m.textarea.SetValue(controlText(after))
	m.setStatus("Updated from external editor (ctrl+s to save)", false)
}
