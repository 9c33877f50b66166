package tui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type clipboardTool struct {
	name string
	args []string
}

// clipboardTools lists the copy commands tried for goos, in order.
func clipboardTools(goos string) []clipboardTool {
	switch goos {
	case "darwin":
		return []clipboardTool{{name: "pbcopy"}}
	case "windows":
		return []clipboardTool{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		return []clipboardTool{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

var errNoClipboard = errors.New("no clipboard tool found")

func copyToClipboard(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var lastErr error = errNoClipboard
	for _, t := range clipboardTools(runtime.GOOS) {
		if _, err := exec.LookPath(t.name); err != nil {
			continue
		}
		cmd := exec.Command(t.name, t.args...)
		cmd.Stdin = strings.NewReader(s)
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", t.name, err)
			continue
		}
		return nil
	}
	return lastErr
}
