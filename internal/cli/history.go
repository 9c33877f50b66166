package cli

import (
	"fmt"
	"strings"
	"time"

	"bookscript/internal/store"

	"github.com/spf13/cobra"
)

type historyOut struct {
	Entries []store.JournalEntry `json:"entries"`
}

func (h historyOut) Text() string {
	if len(h.Entries) == 0 {
		return "no journal entries\n"
	}
	var b strings.Builder
	for _, e := range h.Entries {
		outcome := fmt.Sprintf("ok %dB", e.Bytes)
		if !e.OK() {
			outcome = "error: " + e.Err
		}
		path := e.Path
		if path == "" {
			path = "-"
		}
		fmt.Fprintf(&b, "%s  %-8s  %s  %s\n", e.At.Format(time.DateTime), e.Kind, path, outcome)
	}
	return b.String()
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent load/save/autosave outcomes (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j := app.journal()
			if j.Path == "" {
				return writeErr(cmd, fmt.Errorf("journal is disabled"))
			}
			entries, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if entries == nil {
				entries = []store.JournalEntry{}
			}
			return writeOut(cmd, app, historyOut{Entries: entries})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 = all)")
	return cmd
}
