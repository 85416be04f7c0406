package stylecache

import (
	"errors"
	"fmt"
)

// ErrFaceNotFound is returned when no family in the collection matches the
// requested face name.
var ErrFaceNotFound = errors.New("stylecache: font face not found")

// ShapingError reports a failure to build a format or font collection.
// The cache state from before the failing call is left untouched.
type ShapingError struct {
	// Op is the operation that failed ("format", "parse font file",
	// "resolve").
	Op string
	// Face is the requested face or file name, if any.
	Face string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ShapingError) Error() string {
	if e.Face != "" {
		return fmt.Sprintf("stylecache: %s %q: %v", e.Op, e.Face, e.Err)
	}
	return fmt.Sprintf("stylecache: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ShapingError) Unwrap() error {
	return e.Err
}
