package incremental

import (
	"errors"
	"fmt"
)

// ErrReparseFailed is the sentinel for member reparse failures.
var ErrReparseFailed = errors.New("member reparse failed")

// ReparseError describes why a member region could not be reparsed on its
// own. It is an expected outcome that routes the call to a full reparse.
type ReparseError struct {
	Start  int
	End    int
	Reason string

	// Cause is the underlying parser error, if any.
	Cause error
}

func (e *ReparseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("reparse [%d, %d): %s: %v", e.Start, e.End, e.Reason, e.Cause)
	}
	return fmt.Sprintf("reparse [%d, %d): %s", e.Start, e.End, e.Reason)
}

// Is matches ErrReparseFailed.
func (e *ReparseError) Is(target error) bool {
	return target == ErrReparseFailed
}

func (e *ReparseError) Unwrap() error {
	return e.Cause
}
