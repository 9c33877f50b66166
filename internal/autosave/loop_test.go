package autosave

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"bookscript/internal/store"
	"bookscript/internal/textbuf"
)

// syncBuffer lets the loop goroutine log while the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger(w *syncBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type recordingJournal struct {
	mu      sync.Mutex
	entries []store.JournalEntry
}

func (j *recordingJournal) Record(_ context.Context, e store.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *recordingJournal) snapshot() []store.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]store.JournalEntry(nil), j.entries...)
}

func TestRunCycle_WritesSnapshotAndLogsPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "projects")
	var logs syncBuffer
	journal := &recordingJournal{}

	buf := textbuf.New("Hello")
	l := New(buf, Options{
		Dir: func() (string, error) {
			return dir, nil
		},
		Journal: journal,
		Logger:  testLogger(&logs),
	})

	if err := l.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	path := filepath.Join(dir, store.AutosaveFileName)
	got, err := store.LoadText(path)
	if err != nil {
		t.Fatalf("LoadText: %v", err)
	}
	if got != "Hello" {
		t.Fatalf("autosave content:\n got: %q\nwant: %q", got, "Hello")
	}
	if !strings.Contains(logs.String(), "autosaved") || !strings.Contains(logs.String(), path) {
		t.Fatalf("expected success log with path %q, got:\n%s", path, logs.String())
	}

	res, ok := l.LastResult()
	if !ok || res.Err != nil || res.Path != path || res.Bytes != len("Hello") {
		t.Fatalf("unexpected LastResult: %#v (ok=%v)", res, ok)
	}

	entries := journal.snapshot()
	if len(entries) != 1 || entries[0].Kind != store.KindAutosave || entries[0].Path != path || !entries[0].OK() {
		t.Fatalf("unexpected journal entries: %#v", entries)
	}
}

func TestRunCycle_OverwritesPreviousAutosave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	buf := textbuf.New("one")
	l := New(buf, Options{Dir: func() (string, error) { return dir, nil }, Logger: testLogger(&syncBuffer{})})

	if err := l.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle 1: %v", err)
	}
	buf.Replace("two")
	if err := l.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle 2: %v", err)
	}
	got, err := store.LoadText(filepath.Join(dir, store.AutosaveFileName))
	if err != nil || got != "two" {
		t.Fatalf("LoadText = %q, %v; want %q", got, err, "two")
	}
}

func TestRunCycle_FailuresAreLoggedAndReturned(t *testing.T) {
	t.Parallel()

	dirErr := errors.New("no home")
	writeErr := errors.New("disk full")

	tests := []struct {
		name    string
		dir     func() (string, error)
		save    func(path, content string) error
		wantErr error
		wantLog string
	}{
		{
			name:    "resolve",
			dir:     func() (string, error) { return "", dirErr },
			wantErr: dirErr,
			wantLog: "autosave error",
		},
		{
			name:    "write",
			dir:     func() (string, error) { return "/autosave", nil },
			save:    func(string, string) error { return writeErr },
			wantErr: writeErr,
			wantLog: "autosave failed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var logs syncBuffer
			journal := &recordingJournal{}
			buf := textbuf.New("x")
			l := New(buf, Options{Dir: tt.dir, Save: tt.save, Journal: journal, Logger: testLogger(&logs)})

			err := l.RunCycle(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(logs.String(), tt.wantLog) || !strings.Contains(logs.String(), tt.wantErr.Error()) {
				t.Fatalf("expected log %q with cause, got:\n%s", tt.wantLog, logs.String())
			}
			if got := buf.Snapshot(); got != "x" {
				t.Fatalf("buffer changed by failed autosave: %q", got)
			}
			entries := journal.snapshot()
			if len(entries) != 1 || entries[0].OK() {
				t.Fatalf("expected one failed journal entry, got %#v", entries)
			}
		})
	}
}

// A blocked write must not hold the buffer lock: the interactive path keeps mutating the buffer
// while the save is stuck.
func TestRunCycle_SlowWriteDoesNotBlockBuffer(t *testing.T) {
	t.Parallel()

	entered := make(chan string, 1)
	release := make(chan struct{})

	buf := textbuf.New("before")
	l := New(buf, Options{
		Dir: func() (string, error) { return "/autosave", nil },
		Save: func(_ string, content string) error {
			entered <- content
			<-release
			return nil
		},
		Logger: testLogger(&syncBuffer{}),
	})

	cycleDone := make(chan error, 1)
	go func() { cycleDone <- l.RunCycle(context.Background()) }()

	var written string
	select {
	case written = <-entered:
	case <-time.After(5 * time.Second):
		t.Fatalf("save was never called")
	}

	mutated := make(chan time.Duration, 1)
	go func() {
		start := time.Now()
		buf.Update(func(cur string) string { return cur + " keystroke" })
		mutated <- time.Since(start)
	}()

	select {
	case d := <-mutated:
		// 10ms is the target; the slack absorbs scheduler jitter on loaded CI machines.
		if d > 50*time.Millisecond {
			close(release)
			t.Fatalf("buffer mutation took %s while save was blocked", d)
		}
	case <-time.After(time.Second):
		close(release)
		t.Fatalf("buffer mutation blocked behind a slow autosave write")
	}

	close(release)
	if err := <-cycleDone; err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if written != "before" {
		t.Fatalf("expected snapshot taken before the mutation, got %q", written)
	}
	if got := buf.Snapshot(); got != "before keystroke" {
		t.Fatalf("unexpected buffer after mutation: %q", got)
	}
}

func TestLoop_StartStop(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		saves int
	)
	calls := make(chan struct{}, 64)

	buf := textbuf.New("tick")
	l := New(buf, Options{
		Interval: 5 * time.Millisecond,
		Dir:      func() (string, error) { return "/autosave", nil },
		Save: func(string, string) error {
			mu.Lock()
			saves++
			mu.Unlock()
			select {
			case calls <- struct{}{}:
			default:
			}
			return nil
		},
		Logger: testLogger(&syncBuffer{}),
	})

	l.Stop() // before Start: no-op

	l.Start(context.Background())
	l.Start(context.Background()) // second Start: no-op

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("autosave did not run (cycle %d)", i+1)
		}
	}

	l.Stop()
	l.Stop()

	mu.Lock()
	after := saves
	mu.Unlock()

	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if saves != after {
		t.Fatalf("autosave kept running after Stop: %d -> %d", after, saves)
	}
	if l.Cycles() != uint64(after) {
		t.Fatalf("expected %d cycles, got %d", after, l.Cycles())
	}
}

func TestLoop_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		attempts int
	)
	ok := make(chan struct{}, 1)

	buf := textbuf.New("retry next cycle")
	l := New(buf, Options{
		Interval: 2 * time.Millisecond,
		Dir:      func() (string, error) { return "/autosave", nil },
		Save: func(string, string) error {
			mu.Lock()
			attempts++
			n := attempts
			mu.Unlock()
			if n == 1 {
				return errors.New("transient")
			}
			select {
			case ok <- struct{}{}:
			default:
			}
			return nil
		},
		Logger: testLogger(&syncBuffer{}),
	})

	l.Start(context.Background())
	defer l.Stop()

	select {
	case <-ok:
	case <-time.After(5 * time.Second):
		t.Fatalf("loop did not recover after a failed cycle")
	}
}

func TestLoop_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	l := New(textbuf.New(""), Options{Interval: time.Hour, Logger: testLogger(&syncBuffer{})})
	l.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		l.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Stop did not return after context cancel")
	}
	if l.Cycles() != 0 {
		t.Fatalf("expected no cycles, got %d", l.Cycles())
	}
}
