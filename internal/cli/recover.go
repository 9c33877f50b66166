package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"bookscript/internal/store"

	"github.com/spf13/cobra"
)

type recoverOut struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Bytes int    `json:"bytes"`
}

func (r recoverOut) Text() string {
	return fmt.Sprintf("Recovered %d bytes from %s to %s\n", r.Bytes, r.From, r.To)
}

func newRecoverCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recover <dest>",
		Short: "Copy the last autosave to <dest>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := store.AutosavePath()
			if err != nil {
				return writeErr(cmd, err)
			}
			dest := args[0]
			n, err := store.CopyText(src, dest)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return writeErr(cmd, errNotFound("autosave", src))
				}
				return writeErr(cmd, err)
			}
			if jerr := app.journal().Record(cmd.Context(), store.JournalEntry{Kind: store.KindSave, Path: dest, Bytes: n}); jerr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: journal: %v\n", jerr)
			}
			return writeOut(cmd, app, recoverOut{From: src, To: dest, Bytes: n})
		},
	}
}
