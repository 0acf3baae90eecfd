package searchdata

import (
	"errors"
	"fmt"
)

// ErrMalformed is the only failure kind of this package: the artifact could
// not be parsed or breaks a table invariant. Regenerating the documentation
// is the only remedy, so callers treat it as "search unavailable".
var ErrMalformed = errors.New("malformed search index artifact")

// SyntaxError carries the position of a malformed-artifact failure.
// Offset is -1 when the failure is not tied to a byte position
// (duplicate keys across shards, invalid JSON interchange documents).
type SyntaxError struct {
	Source string // file name, empty for in-memory input
	Offset int
	Line   int
	Msg    string
}

func (e *SyntaxError) Error() string {
	prefix := e.Source
	if prefix == "" {
		prefix = "searchData"
	}
	if e.Offset < 0 {
		return fmt.Sprintf("%s: %s", prefix, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s (offset %d)", prefix, e.Line, e.Msg, e.Offset)
}

// Unwrap makes every SyntaxError match ErrMalformed.
func (e *SyntaxError) Unwrap() error {
	return ErrMalformed
}

func malformed(offset int, format string, args ...interface{}) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// withSource stamps a file name onto a SyntaxError, leaving other errors alone.
func withSource(err error, source string) error {
	var se *SyntaxError
	if errors.As(err, &se) && se.Source == "" {
		se.Source = source
	}
	return err
}
