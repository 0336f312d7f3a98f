package contentpath

import (
	"errors"
	"fmt"
)

var (
	ErrNoRows       = errors.New("no rows")
	ErrNoColumn     = errors.New("no such column")
	ErrCursorClosed = errors.New("cursor closed")
	ErrNotFound     = errors.New("content not found")
	ErrNoProvider   = errors.New("no provider for authority")
	ErrNotDocument  = errors.New("not a document identifier")
	ErrOpenStream   = errors.New("could not open stream")
)

// StreamError is returned when no strategy could open a readable stream for
// an identifier. It is the only failure the resolver propagates.
type StreamError struct {
	URI string
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("open stream %q: %v", e.URI, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match any StreamError against ErrOpenStream
func (e *StreamError) Is(target error) bool {
	return target == ErrOpenStream
}
