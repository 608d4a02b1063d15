package setuptext

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedInput is wrapped by every ParseError.
var ErrMalformedInput = errors.New("malformed setup text")

// ParseError describes why a line of setup text could not be tokenized.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, ErrMalformedInput, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrMalformedInput }

func parseErrorf(line int, format string, args ...any) error {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Parse tokenizes setup text into a Table. It fails with an error wrapping
// ErrMalformedInput on an unterminated section header, a non-reserved key
// outside any section, or a section line that is not a KEY = VALUE pair.
// Comment lines (starting with '#' or ';') and blank lines are dropped.
func Parse(text string) (*Table, error) {
	table := NewTable()
	var current *Section

	for i, rawLine := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(rawLine)
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		if line[0] == '[' {
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return nil, parseErrorf(lineNo, "unterminated section header %q", line)
			}
			name := strings.TrimSpace(line[1:end])
			if name == "" {
				return nil, parseErrorf(lineNo, "empty section name")
			}
			if rest := strings.TrimSpace(line[end+1:]); rest != "" {
				return nil, parseErrorf(lineNo, "unexpected text %q after section header", rest)
			}
			current = table.EnsureSection(name)
			continue
		}

		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, parseErrorf(lineNo, "expected KEY = VALUE, got %q", line)
		}
		key := strings.TrimSpace(line[:eq])
		raw := strings.TrimSpace(line[eq+1:])
		if key == "" {
			return nil, parseErrorf(lineNo, "empty key")
		}

		// Reserved keys belong to the header wherever they appear.
		if setHeaderKey(&table.Header, key, raw) {
			continue
		}

		if current == nil {
			return nil, parseErrorf(lineNo, "key %q outside any section", key)
		}
		current.Set(key, classifyScalar(raw))
	}

	return table, nil
}

// setHeaderKey routes a reserved key into the header, reporting whether the
// key was reserved.
func setHeaderKey(h *Header, key, raw string) bool {
	switch key {
	case KeyVersion:
		h.Version = raw
	case KeyVehicle:
		h.Vehicle = raw
	case KeyTrack:
		h.Track = raw
	case KeySetupName:
		h.SetupName = raw
	case KeyTimestamp:
		h.Timestamp = raw
	default:
		return false
	}
	return true
}
