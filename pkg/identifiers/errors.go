package identifiers

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrMalformedHeader = errors.New("malformed header")
	ErrFileOpenFailed  = errors.New("file open failed")
)

// FormatError provides structured error information for malformed input files.
type FormatError struct {
	File   string // path of the offending file
	Detail string // what was wrong with it
	Cause  error  // underlying sentinel or I/O error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// IsMalformedHeader returns true if the error indicates a header that could not be parsed.
func IsMalformedHeader(err error) bool {
	return errors.Is(err, ErrMalformedHeader)
}
