package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Texter is implemented by CLI payloads that have a human-readable form.
type Texter interface {
	Text() string
}

// Write writes output in the requested format.
//
// Supported formats:
// - text (default): v.Text() when available, fmt's %v otherwise
// - json
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "text":
		return WriteText(w, v)
	case "json":
		return WriteJSON(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func WriteText(w io.Writer, v any) error {
	if t, ok := v.(Texter); ok {
		_, err := io.WriteString(w, t.Text())
		return err
	}
	_, err := fmt.Fprintln(w, v)
	return err
}

// WriteJSON writes strict JSON, one document per call.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
