package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"bookscript/internal/autosave"
	"bookscript/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type autosaveTickMsg struct{}

type Options struct {
	Session *session.Session
	// Autosave is read for the status indicator only; the caller starts and stops it.
	Autosave *autosave.Loop

	OpenPath string
	SavePath string

	Context context.Context
}

type appModel struct {
	ctx  context.Context
	sess *session.Session
	loop *autosave.Loop

	openPath string
	savePath string

	keys     keyMap
	help     help.Model
	textarea textarea.Model

	width  int
	height int

	showPreview bool
	statusIsErr bool
}

func newAppModel(opts Options) appModel {
	m := appModel{
		ctx:      opts.Context,
		sess:     opts.Session,
		loop:     opts.Autosave,
		openPath: opts.OpenPath,
		savePath: opts.SavePath,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.openPath == "" {
		m.openPath = session.DefaultOpenPath
	}
	if m.savePath == "" {
		m.savePath = session.DefaultSavePath
	}

	m.textarea = textarea.New()
	m.textarea.Placeholder = "Write…"
	m.textarea.CharLimit = 0
	// Zero lifts the textarea's default line/row caps; documents are book-length.
	m.textarea.MaxHeight = 0
	m.textarea.MaxWidth = 0
	m.textarea.ShowLineNumbers = false
	m.textarea.SetWidth(80)
	m.textarea.SetHeight(20)
	m.textarea.SetValue(controlText(m.sess.Buffer().Snapshot()))
	m.textarea.Focus()
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tickAutosaveStatus())
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case autosaveTickMsg:
		// Only triggers a redraw so the autosave indicator stays current.
		return m, tickAutosaveStatus()

	case externalEditDoneMsg:
		m.applyExternalEdit(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Open):
			m.open()
			return m, nil
		case key.Matches(msg, m.keys.Save):
			m.statusIsErr = m.sess.Save(m.ctx, m.savePath) != nil
			return m, nil
		case key.Matches(msg, m.keys.SaveAs):
			m.statusIsErr = m.sess.SaveAs(m.ctx, m.savePath) != nil
			return m, nil
		case key.Matches(msg, m.keys.Preview):
			m.showPreview = !m.showPreview
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.About):
			m.sess.About()
			m.statusIsErr = false
			return m, nil
		case key.Matches(msg, m.keys.Copy):
			if err := copyToClipboard(m.sess.Buffer().Snapshot()); err != nil {
				m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
			} else {
				m.setStatus("Copied document to clipboard", false)
			}
			return m, nil
		case key.Matches(msg, m.keys.External):
			cmd, err := m.editExternally()
			if err != nil {
				m.setStatus(fmt.Sprintf("Editor failed: %v", err), true)
				return m, nil
			}
			return m, cmd
		}
	}

	before := m.textarea.Value()
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	if _, isKey := msg.(tea.KeyMsg); isKey && m.textarea.Value() != before {
		m.syncBuffer()
	}
	return m, cmd
}

// syncBuffer writes the text control's value into the shared buffer. Only keystrokes that
// change the text call it; blinks, ticks and cursor moves leave the buffer alone.
func (m *appModel) syncBuffer() {
	m.sess.Buffer().Replace(m.textarea.Value())
}

// controlText prepares buffer text for the textarea. The textarea turns each of '\r' and '\n'
// into a line break, so CRLF is folded to LF first. It also expands tabs to four spaces and drops
// other control characters. The buffer keeps the original bytes until the user edits.
func controlText(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func (m *appModel) setStatus(msg string, isErr bool) {
	m.sess.SetStatus(msg)
	m.statusIsErr = isErr
}

func (m *appModel) open() {
	if err := m.sess.Open(m.ctx, m.openPath); err != nil {
		m.statusIsErr = true
		return
	}
	m.statusIsErr = false
	m.textarea.SetValue(controlText(m.sess.Buffer().Snapshot()))
}

func (m *appModel) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	// title + status + help
	bodyHeight := m.height - 3
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	editorWidth := m.width
	if m.showPreview {
		editorWidth = m.width / 2
	}
	m.textarea.SetWidth(editorWidth)
	m.textarea.SetHeight(bodyHeight)
	m.help.Width = m.width
}

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	title := styleTitleBar().Width(width).Render(fitWidth(m.titleText(), width-2))

	body := m.textarea.View()
	if m.showPreview {
		previewWidth := width - m.textarea.Width() - 3
		preview := renderMarkdown(m.sess.Buffer().Snapshot(), previewWidth)
		if preview == "" {
			preview = styleMuted().Render("Nothing to preview.")
		}
		pane := stylePreviewPane().
			Width(previewWidth).
			Height(m.textarea.Height()).
			MaxHeight(m.textarea.Height()).
			Render(preview)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, pane)
	}

	ind := ""
	if m.loop != nil {
		res, ok := m.loop.LastResult()
		ind = autosaveIndicator(res, ok, m.loop.Interval())
	}
	status := statusLine(m.sess.Status(), ind, width-2)
	statusStyle := styleStatusBar()
	if m.statusIsErr {
		statusStyle = styleStatusError()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		body,
		statusStyle.Width(width).Render(status),
		m.help.View(m.keys),
	)
}

func (m appModel) titleText() string {
	name := "untitled"
	if p, ok := m.sess.CurrentFile(); ok {
		name = filepath.Base(p)
	}
	return session.AppTitle + " · " + name
}

// statusLine lays out "Status: <msg>" on the left and the autosave indicator on the right,
// truncating the message when the line is too narrow.
func statusLine(msg, indicator string, width int) string {
	left := "Status: " + msg
	if width <= 0 {
		return left
	}
	indW := xansi.StringWidth(indicator)
	if indicator == "" || indW+2 >= width {
		return fitWidth(left, width)
	}
	avail := width - indW - 2
	left = fitWidth(left, avail)
	pad := width - xansi.StringWidth(left) - indW
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + indicator
}

func fitWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return xansi.Cut(s, 0, w-1) + "…"
}

func autosaveIndicator(res autosave.Result, ok bool, interval time.Duration) string {
	if !ok {
		return fmt.Sprintf("autosave every %s", interval)
	}
	at := res.At.Format("15:04:05")
	if res.Err != nil {
		return "autosave failed " + at
	}
	return "autosaved " + at
}

func tickAutosaveStatus() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return autosaveTickMsg{} })
}
