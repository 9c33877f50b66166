// Package session implements the user-facing editor actions: open, save as and about.
//
// A Session owns the current file reference and the status message. Both belong to the
// interactive goroutine and are not synchronized; only the shared buffer is.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"bookscript/internal/store"
	"bookscript/internal/textbuf"
)

const (
	AppTitle      = "BookScript Writer"
	AppVersion    = "0.1.0"
	InitialStatus = "Ready"

	// Until there is a file picker, open and save use fixed paths.
	DefaultOpenPath = "test.bks"
	DefaultSavePath = "output.bks"
)

type Journal interface {
	Record(ctx context.Context, e store.JournalEntry) error
}

type Options struct {
	// Load and Save default to store.LoadText and store.SaveText.
	Load func(path string) (string, error)
	Save func(path, content string) error

	Journal Journal
	Logger  *slog.Logger
}

type Session struct {
	buf     *textbuf.Buffer
	load    func(path string) (string, error)
	save    func(path, content string) error
	journal Journal
	logger  *slog.Logger

	currentFile string
	hasFile     bool
	status      string
}

func New(buf *textbuf.Buffer, opts Options) *Session {
	s := &Session{
		buf:     buf,
		load:    opts.Load,
		save:    opts.Save,
		journal: opts.Journal,
		logger:  opts.Logger,
		status:  InitialStatus,
	}
	if s.load == nil {
		s.load = store.LoadText
	}
	if s.save == nil {
		s.save = store.SaveText
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("component", "session"))
	return s
}

// Buffer is the shared document buffer the text control edits in place.
func (s *Session) Buffer() *textbuf.Buffer { return s.buf }

func (s *Session) Status() string { return s.status }

// CurrentFile reports where the buffer was last loaded from or saved to.
func (s *Session) CurrentFile() (string, bool) { return s.currentFile, s.hasFile }

// Open replaces the buffer with the file's content. On failure the buffer and current file
// are left untouched and the status carries the error.
func (s *Session) Open(ctx context.Context, path string) error {
	content, err := s.load(path)
	if err != nil {
		s.status = fmt.Sprintf("Error loading file: %v", err)
		s.logger.Warn("open failed", slog.String("path", path), slog.String("err", err.Error()))
		s.record(ctx, store.KindLoad, path, 0, err)
		return err
	}

	s.buf.Replace(content)
	s.currentFile = path
	s.hasFile = true
	s.status = fmt.Sprintf("Loaded: %s", path)
	s.logger.Info("opened", slog.String("path", path), slog.Int("bytes", len(content)))
	s.record(ctx, store.KindLoad, path, len(content), nil)
	return nil
}

// SaveAs writes a snapshot of the buffer to path. The buffer is never modified.
func (s *Session) SaveAs(ctx context.Context, path string) error {
	content := s.buf.Snapshot()

	if err := s.save(path, content); err != nil {
		s.status = fmt.Sprintf("Error saving file: %v", err)
		s.logger.Warn("save failed", slog.String("path", path), slog.String("err", err.Error()))
		s.record(ctx, store.KindSave, path, 0, err)
		return err
	}

	s.currentFile = path
	s.hasFile = true
	s.status = fmt.Sprintf("Saved: %s", path)
	s.logger.Info("saved", slog.String("path", path), slog.Int("bytes", len(content)))
	s.record(ctx, store.KindSave, path, len(content), nil)
	return nil
}

// Save writes to the current file, falling back to fallback when nothing has been opened or
// saved yet.
func (s *Session) Save(ctx context.Context, fallback string) error {
	if path, ok := s.CurrentFile(); ok {
		return s.SaveAs(ctx, path)
	}
	return s.SaveAs(ctx, fallback)
}

func (s *Session) About() {
	s.status = fmt.Sprintf("%s v%s - A simple writing app", AppTitle, AppVersion)
}

// SetStatus lets the front-end report outcomes that are not session actions.
func (s *Session) SetStatus(msg string) { s.status = msg }

func (s *Session) record(ctx context.Context, kind, path string, n int, err error) {
	if s.journal == nil {
		return
	}
	e := store.JournalEntry{Kind: kind, Path: path, Bytes: n}
	if err != nil {
		e.Err = err.Error()
	}
	if jerr := s.journal.Record(ctx, e); jerr != nil {
		s.logger.Warn("journal record failed", slog.String("err", jerr.Error()))
	}
}
