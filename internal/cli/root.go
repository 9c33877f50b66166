package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"bookscript/internal/autosave"
	"bookscript/internal/format"
	"bookscript/internal/session"
	"bookscript/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	DataDir          string
	AutosaveInterval time.Duration
	OpenPath         string
	SavePath         string
	LogFile          string
	LogLevel         string
	Journal          bool
	PrettyJSON       bool
	Format           string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "bookscript",
		Short:        "BookScript Writer: a minimal terminal editor with autosave",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Start the editor (ctrl+o opens test.bks, ctrl+s saves to output.bks)
  bookscript

  # Edit chapter1.bks (loaded now if it exists, saved back with ctrl+s)
  bookscript chapter1.bks

  # Read from one file, save to another
  bookscript --open draft.bks --save-as final.bks

  # Where does the autosave go?
  bookscript paths

  # Restore the last autosave
  bookscript recover rescued.bks
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// The store resolves the data dir from the environment; the flag just feeds it.
		if d := strings.TrimSpace(app.DataDir); d != "" {
			if err := os.Setenv(envDataDir, d); err != nil {
				return writeErr(cmd, err)
			}
		}
		if app.AutosaveInterval <= 0 {
			return writeErr(cmd, fmt.Errorf("invalid --autosave-interval %s: must be positive", app.AutosaveInterval))
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.DataDir, "data-dir", envOr(envDataDir, ""), "Override the per-user data directory (autosave, journal, log)")
	cmd.PersistentFlags().DurationVar(&app.AutosaveInterval, "autosave-interval", durationEnvDefault("BOOKSCRIPT_AUTOSAVE_INTERVAL", autosave.DefaultInterval), "Time between autosave cycles")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("BOOKSCRIPT_LOG_FILE", ""), "Log file used while the editor is running (default: <data-dir>/"+store.LogFileName+")")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("BOOKSCRIPT_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.Journal, "journal", boolEnvDefault("BOOKSCRIPT_JOURNAL", true), "Record load/save/autosave outcomes in the journal")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("BOOKSCRIPT_FORMAT", "text"), "Output format (text|json)")

	cmd.Flags().StringVar(&app.OpenPath, "open", session.DefaultOpenPath, "File loaded by the open action (ctrl+o)")
	cmd.Flags().StringVar(&app.SavePath, "save-as", session.DefaultSavePath, "File written by the save actions (ctrl+s, f2)")

	cmd.AddCommand(newPathsCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newRecoverCmd(app))
	cmd.AddCommand(newAutosaveCmd(app))

	return cmd
}

// journal returns the configured journal, or the zero (disabled) journal.
func (app *App) journal() store.Journal {
	if !app.Journal {
		return store.Journal{}
	}
	p, err := store.JournalPath()
	if err != nil {
		return store.Journal{}
	}
	return store.Journal{Path: p}
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
