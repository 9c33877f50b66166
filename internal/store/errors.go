package store

import "fmt"

// IOError reports a failed file operation: missing or unreadable file, text that is not valid
// UTF-8, or a failed write / directory creation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func errIO(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

// ConfigError reports that a per-user directory could not be determined.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func errConfig(op string, err error) error {
	return &ConfigError{Op: op, Err: err}
}
