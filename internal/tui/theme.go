package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorAccent  lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#4B47C8", Dark: "#8C88F8"}
	colorMuted   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#6F6F6F", Dark: "#8A8A8A"}
	colorError   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#F2B8B5"}
	colorBarBg   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#E4E4EC", Dark: "#2A2A36"}
	colorBarFg   lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#1C1B1F", Dark: "#E6E1E5"}
	colorBorder  lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#C9C9D6", Dark: "#44445A"}
	colorTitleFg lipgloss.TerminalColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
)

func styleTitleBar() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorTitleFg).Background(colorAccent).Padding(0, 1)
}

func styleStatusBar() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorBarFg).Background(colorBarBg).Padding(0, 1)
}

func styleStatusError() lipgloss.Style {
	return styleStatusBar().Foreground(colorError)
}

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func stylePreviewPane() lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).BorderForeground(colorBorder).PaddingLeft(1)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile also honors CLICOLOR, which can switch colors off inside a TUI; only
// NO_COLOR is respected here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && profile != termenv.TrueColor {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures Lip Gloss's background detection.
//
// Priority:
// 1) BOOKSCRIPT_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg", last segment is the background)
func applyThemePreference() {
	if dark, ok := themeDarkPreference(os.Getenv); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

func themeDarkPreference(getenv func(string) string) (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(getenv("BOOKSCRIPT_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	if v := strings.TrimSpace(getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			// xterm palette: 0-6 dark, 7-15 light.
			return bg < 7, true
		}
	}
	return false, false
}
