package edges

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrDuplicateEdgeConflict means the same unordered protein pair appeared
	// twice with different combined scores. The input is ambiguous and the
	// filter pass must not silently pick either score.
	ErrDuplicateEdgeConflict = errors.New("duplicate edge with different scores")

	ErrBadScore = errors.New("combined_score is not an integer")
)

// DuplicateScoreError carries the offending pair and both scores.
type DuplicateScoreError struct {
	Protein1  string
	Protein2  string
	Existing  int
	Candidate int
	Line      int // 1-based line number in the links file
}

// Error implements the error interface.
func (e *DuplicateScoreError) Error() string {
	return fmt.Sprintf("line %d: edge (%s, %s) already seen with score %d, got %d: %v",
		e.Line, e.Protein1, e.Protein2, e.Existing, e.Candidate, ErrDuplicateEdgeConflict)
}

// Unwrap returns the sentinel for errors.Is support.
func (e *DuplicateScoreError) Unwrap() error {
	return ErrDuplicateEdgeConflict
}

// ScoreParseError reports a row whose trailing combined_score column did not
// parse as an integer.
type ScoreParseError struct {
	File  string
	Line  int
	Value string
	Cause error
}

func (e *ScoreParseError) Error() string {
	return fmt.Sprintf("%s line %d: %v: %q: %v", e.File, e.Line, ErrBadScore, e.Value, e.Cause)
}

func (e *ScoreParseError) Unwrap() error {
	return ErrBadScore
}
