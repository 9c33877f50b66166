package cli

import (
	"fmt"
	"strings"

	"bookscript/internal/store"

	"github.com/spf13/cobra"
)

type pathsOut struct {
	DataDir      string `json:"dataDir"`
	AutosavePath string `json:"autosavePath"`
	JournalPath  string `json:"journalPath"`
	LogPath      string `json:"logPath"`
}

func (p pathsOut) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "data:     %s\n", p.DataDir)
	fmt.Fprintf(&b, "autosave: %s\n", p.AutosavePath)
	fmt.Fprintf(&b, "journal:  %s\n", p.JournalPath)
	fmt.Fprintf(&b, "log:      %s\n", p.LogPath)
	return b.String()
}

func newPathsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show where BookScript keeps its autosave, journal and log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := store.ResolveAppDataDir()
			if err != nil {
				return writeErr(cmd, err)
			}
			autosavePath, err := store.AutosavePath()
			if err != nil {
				return writeErr(cmd, err)
			}
			journalPath, err := store.JournalPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			logPath := app.LogFile
			if logPath == "" {
				if logPath, err = store.LogPath(); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, pathsOut{
				DataDir:      dataDir,
				AutosavePath: autosavePath,
				JournalPath:  journalPath,
				LogPath:      logPath,
			})
		},
	}
}
