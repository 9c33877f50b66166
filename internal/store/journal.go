package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Journal kinds.
const (
	KindLoad     = "load"
	KindSave     = "save"
	KindAutosave = "autosave"
)

// JournalEntry records the outcome of one load/save/autosave attempt.
type JournalEntry struct {
	ID    int64     `json:"id"`
	At    time.Time `json:"at"`
	Kind  string    `json:"kind"`
	Path  string    `json:"path"`
	Bytes int       `json:"bytes"`
	Err   string    `json:"error,omitempty"`
}

func (e JournalEntry) OK() bool { return e.Err == "" }

// Journal is a SQLite-backed history of persistence outcomes. The zero Path disables it.
//
// Each call opens its own connection so the journal can be shared by the TUI, the autosave
// worker and CLI subcommands running in other processes.
type Journal struct {
	Path string
}

func (j Journal) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(j.Path) == "" {
		return nil, errors.New("journal: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(j.Path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", j.Path)
	if err != nil {
		return nil, err
	}
	// WAL + busy_timeout: the autosave worker and a CLI invocation may write at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at_unixms INTEGER NOT NULL,
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			bytes INTEGER NOT NULL DEFAULT 0,
			error TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_at ON entries(at_unixms);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (j Journal) Record(ctx context.Context, e JournalEntry) error {
	if strings.TrimSpace(j.Path) == "" {
		return nil
	}
	db, err := j.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	var errText sql.NullString
	if e.Err != "" {
		errText = sql.NullString{String: e.Err, Valid: true}
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO entries (at_unixms, kind, path, bytes, error) VALUES (?, ?, ?, ?, ?)`,
		at.UnixMilli(), e.Kind, e.Path, e.Bytes, errText,
	)
	return err
}

// Recent returns up to limit entries, newest first. limit <= 0 means "all".
func (j Journal) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if strings.TrimSpace(j.Path) == "" {
		return nil, nil
	}
	if _, err := os.Stat(j.Path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	db, err := j.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, at_unixms, kind, path, bytes, error FROM entries ORDER BY id DESC`
	var rows *sql.Rows
	if limit > 0 {
		rows, err = db.QueryContext(ctx, q+` LIMIT ?`, limit)
	} else {
		rows, err = db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var (
			e       JournalEntry
			atMs    int64
			errText sql.NullString
		)
		if err := rows.Scan(&e.ID, &atMs, &e.Kind, &e.Path, &e.Bytes, &errText); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(atMs)
		if errText.Valid {
			e.Err = errText.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
