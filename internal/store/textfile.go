package store

import (
	"errors"
	"os"
	"path/filepath"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("file is not valid UTF-8 text")

// LoadText reads the whole file at path as UTF-8 text.
func LoadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errIO("read file", path, err)
	}
	if !utf8.Valid(b) {
		return "", errIO("read file", path, errInvalidUTF8)
	}
	return string(b), nil
}

// SaveText writes content to path, creating any missing parent directories first.
//
// The write goes to a temp file in the target directory and is renamed into place, so after a
// crash the path holds either the old or the new content.
func SaveText(path string, content string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errIO("create directory", dir, err)
	}
	if err := atomicWriteFile(dir, "."+filepath.Base(path)+".*.tmp", path, []byte(content), 0o644); err != nil {
		return errIO("write file", path, err)
	}
	return nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// CopyText copies a text file through LoadText/SaveText, so the destination gets the same
// directory creation and atomic replace as any other save.
func CopyText(src string, dest string) (int, error) {
	content, err := LoadText(src)
	if err != nil {
		return 0, err
	}
	if err := SaveText(dest, content); err != nil {
		return 0, err
	}
	return len(content), nil
}
