package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveTextLoadText_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "ascii", content: "Hello"},
		{name: "multiline", content: "line one\nline two\r\n\ttabbed\n"},
		{name: "unicode", content: "héllo wörld — 日本語 🎉\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "doc.bks")
			if err := SaveText(path, tt.content); err != nil {
				t.Fatalf("SaveText: %v", err)
			}
			got, err := LoadText(path)
			if err != nil {
				t.Fatalf("LoadText: %v", err)
			}
			if got != tt.content {
				t.Fatalf("round trip:\n got: %q\nwant: %q", got, tt.content)
			}
		})
	}
}

func TestSaveText_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := SaveText(path, "first version that is longer"); err != nil {
		t.Fatalf("SaveText 1: %v", err)
	}
	if err := SaveText(path, "second"); err != nil {
		t.Fatalf("SaveText 2: %v", err)
	}
	got, err := LoadText(path)
	if err != nil {
		t.Fatalf("LoadText: %v", err)
	}
	if got != "second" {
		t.Fatalf("expected overwritten content, got %q", got)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
}

func TestSaveText_CreatesMissingParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "c", "out.txt")
	if err := SaveText(path, "nested"); err != nil {
		t.Fatalf("SaveText: %v", err)
	}
	st, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("stat parent: %v", err)
	}
	if !st.IsDir() {
		t.Fatalf("expected parent to be a directory")
	}
}

func TestSaveText_ParentIsFileFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	err := SaveText(filepath.Join(blocker, "sub", "out.txt"), "data")
	if err == nil {
		t.Fatalf("expected error when parent is a regular file")
	}
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T: %v", err, err)
	}
	if ioErr.Op != "create directory" {
		t.Fatalf("expected create directory op, got %q", ioErr.Op)
	}
}

func TestLoadText_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope.bks")
	_, err := LoadText(path)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T: %v", err, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected errors.Is(err, fs.ErrNotExist), got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to mention %q, got %q", path, err.Error())
	}
}

func TestLoadText_InvalidUTF8(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bin.bks")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 'a'}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadText(path)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T: %v", err, err)
	}
	if !errors.Is(err, errInvalidUTF8) {
		t.Fatalf("expected invalid UTF-8 cause, got %v", err)
	}
}

func TestCopyText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.bks")
	if err := SaveText(src, "recover me"); err != nil {
		t.Fatalf("SaveText: %v", err)
	}
	dest := filepath.Join(dir, "restored", "copy.bks")
	n, err := CopyText(src, dest)
	if err != nil {
		t.Fatalf("CopyText: %v", err)
	}
	if n != len("recover me") {
		t.Fatalf("expected %d bytes, got %d", len("recover me"), n)
	}
	got, err := LoadText(dest)
	if err != nil || got != "recover me" {
		t.Fatalf("LoadText(dest) = %q, %v", got, err)
	}
}
