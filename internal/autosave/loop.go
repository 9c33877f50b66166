// Package autosave periodically persists the shared document buffer.
//
// A cycle is: wait for the interval, resolve the autosave directory, snapshot the buffer, write
// the snapshot. Every failure is logged and the loop goes back to waiting. The buffer lock is
// held only while copying, never during disk I/O.
package autosave

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"bookscript/internal/store"
	"bookscript/internal/textbuf"
)

const DefaultInterval = 60 * time.Second

// Journal receives one entry per cycle that reached the write step or failed before it.
type Journal interface {
	Record(ctx context.Context, e store.JournalEntry) error
}

type Options struct {
	// Interval between cycles. Default: DefaultInterval.
	Interval time.Duration

	// Dir resolves (and creates) the autosave directory. Default: store.AutosaveDir.
	Dir func() (string, error)
	// FileName inside Dir. Default: store.AutosaveFileName.
	FileName string
	// Save writes content to path. Default: store.SaveText.
	Save func(path, content string) error

	Journal Journal
	Logger  *slog.Logger
}

// Result describes the most recent cycle.
type Result struct {
	At       time.Time
	Path     string
	Bytes    int
	Revision uint64
	Err      error
}

type Loop struct {
	buf      *textbuf.Buffer
	interval time.Duration
	dir      func() (string, error)
	fileName string
	save     func(path, content string) error
	journal  Journal
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	last    Result
	hasLast bool
	cycles  uint64
}

func New(buf *textbuf.Buffer, opts Options) *Loop {
	l := &Loop{
		buf:      buf,
		interval: opts.Interval,
		dir:      opts.Dir,
		fileName: opts.FileName,
		save:     opts.Save,
		journal:  opts.Journal,
		logger:   opts.Logger,
	}
	if l.interval <= 0 {
		l.interval = DefaultInterval
	}
	if l.dir == nil {
		l.dir = store.AutosaveDir
	}
	if l.fileName == "" {
		l.fileName = store.AutosaveFileName
	}
	if l.save == nil {
		l.save = store.SaveText
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	l.logger = l.logger.With(slog.String("component", "autosave"))
	return l
}

func (l *Loop) Interval() time.Duration { return l.interval }

// Start launches the background goroutine. Calling Start on a running loop is a no-op.
// The loop runs until Stop is called or ctx is cancelled.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.started = true
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	l.logger.Debug("autosave started", slog.Duration("interval", l.interval))
	go l.run(loopCtx, done)
}

// Stop cancels the loop and waits for an in-flight cycle to finish. Safe to call repeatedly and
// before Start.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.started {
		l.mu.Unlock()
		return
	}
	cancel := l.cancel
	done := l.done
	l.started = false
	l.cancel = nil
	l.done = nil
	l.mu.Unlock()

	cancel()
	<-done
	l.logger.Debug("autosave stopped")
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		_ = l.RunCycle(ctx)
		timer.Reset(l.interval)
	}
}

// RunCycle performs one snapshot-and-persist step synchronously and returns its error.
// The error has already been logged; the loop ignores it.
func (l *Loop) RunCycle(ctx context.Context) error {
	start := time.Now()

	dir, err := l.dir()
	if err != nil {
		l.logger.Error("autosave error", slog.String("err", err.Error()))
		l.finish(ctx, Result{At: start, Err: err})
		return err
	}
	path := filepath.Join(dir, l.fileName)

	content, rev := l.buf.SnapshotRev()

	if err := l.save(path, content); err != nil {
		l.logger.Error("autosave failed", slog.String("path", path), slog.String("err", err.Error()))
		l.finish(ctx, Result{At: start, Path: path, Revision: rev, Err: err})
		return err
	}

	l.logger.Info("autosaved",
		slog.String("path", path),
		slog.Int("bytes", len(content)),
		slog.Duration("duration", time.Since(start)),
	)
	l.finish(ctx, Result{At: start, Path: path, Bytes: len(content), Revision: rev})
	return nil
}

func (l *Loop) finish(ctx context.Context, res Result) {
	l.mu.Lock()
	l.last = res
	l.hasLast = true
	l.cycles++
	l.mu.Unlock()

	if l.journal == nil {
		return
	}
	e := store.JournalEntry{At: res.At, Kind: store.KindAutosave, Path: res.Path, Bytes: res.Bytes}
	if res.Err != nil {
		e.Err = res.Err.Error()
	}
	// A cancelled loop still records the cycle it just finished.
	if err := l.journal.Record(context.WithoutCancel(ctx), e); err != nil {
		l.logger.Warn("journal record failed", slog.String("err", err.Error()))
	}
}

// LastResult returns the outcome of the most recent cycle, if any.
func (l *Loop) LastResult() (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last, l.hasLast
}

// Cycles counts completed cycles, successful or not.
func (l *Loop) Cycles() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cycles
}
