package cli

import (
	"fmt"

	"bookscript/internal/autosave"
	"bookscript/internal/store"
	"bookscript/internal/textbuf"

	"github.com/spf13/cobra"
)

type autosaveOut struct {
	Source string `json:"source"`
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
}

func (a autosaveOut) Text() string {
	return fmt.Sprintf("Autosaved %d bytes from %s to %s\n", a.Bytes, a.Source, a.Path)
}

func newAutosaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autosave",
		Short: "Autosave utilities",
	}
	cmd.AddCommand(newAutosaveNowCmd(app))
	return cmd
}

func newAutosaveNowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "now <file>",
		Short: "Load <file> and run a single autosave cycle with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := store.LoadText(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			logger := newLogger(cmd.ErrOrStderr(), app.LogLevel)
			loop := autosave.New(textbuf.New(content), autosave.Options{
				Interval: app.AutosaveInterval,
				Journal:  app.journal(),
				Logger:   logger,
			})
			if err := loop.RunCycle(cmd.Context()); err != nil {
				// Already logged by the loop.
				return err
			}
			res, _ := loop.LastResult()
			return writeOut(cmd, app, autosaveOut{Source: args[0], Path: res.Path, Bytes: res.Bytes})
		},
	}
}
