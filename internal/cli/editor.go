package cli

import (
	"context"
	"log/slog"
	"os"

	"bookscript/internal/autosave"
	"bookscript/internal/session"
	"bookscript/internal/store"
	"bookscript/internal/textbuf"
	"bookscript/internal/tui"

	"github.com/spf13/cobra"
)

func runEditor(cmd *cobra.Command, app *App) error {
	// The TUI owns the terminal, so logs go to a file.
	logPath := app.LogFile
	if logPath == "" {
		p, err := store.LogPath()
		if err != nil {
			return writeErr(cmd, err)
		}
		logPath = p
	}
	f, err := openLogFile(logPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer f.Close()
	logger := newLogger(f, app.LogLevel)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	journal := app.journal()
	buf := textbuf.New("")
	sess := session.New(buf, session.Options{Journal: journal, Logger: logger})
	loop := autosave.New(buf, autosave.Options{
		Interval: app.AutosaveInterval,
		Journal:  journal,
		Logger:   logger,
	})

	// An explicit --open (or `bookscript <file>`) loads the document up front. A file that does not
	// exist yet is a new document: it is created by the first save.
	if cmd.Flags().Changed("open") {
		if _, statErr := os.Stat(app.OpenPath); statErr == nil {
			_ = sess.Open(ctx, app.OpenPath)
		}
	}

	loop.Start(ctx)
	defer loop.Stop()

	logger.Info("editor started",
		slog.String("open", app.OpenPath),
		slog.String("saveAs", app.SavePath),
		slog.Duration("autosaveInterval", loop.Interval()),
	)

	err = tui.Run(tui.Options{
		Session:  sess,
		Autosave: loop,
		OpenPath: app.OpenPath,
		SavePath: app.SavePath,
		Context:  ctx,
	})
	if err != nil {
		logger.Error("editor exited with error", slog.String("err", err.Error()))
		return writeErr(cmd, err)
	}
	logger.Info("editor exited")
	return nil
}
