package cli

import "fmt"

type notFoundError struct {
	kind string
	path string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.path)
}

func errNotFound(kind, path string) error {
	return notFoundError{kind: kind, path: path}
}
