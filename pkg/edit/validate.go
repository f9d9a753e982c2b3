package edit

import (
	"fmt"
	"sort"
)

// ValidationError describes an invalid change.
type ValidationError struct {
	Change  TextChange
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid change [%d:%d]: %s", e.Change.Start, e.Change.OldEnd(), e.Message)
}

// Unwrap lets callers match ErrInvalidChange with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidChange
}

// OverlapError describes two changes whose removed regions overlap.
type OverlapError struct {
	First  TextChange
	Second TextChange
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping changes: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.OldEnd(),
		e.Second.Start, e.Second.OldEnd())
}

// ValidateChanges checks that every change is well-formed and fits in a text
// of textLen bytes. Returns the first error encountered.
func ValidateChanges(changes []TextChange, textLen int) error {
	for _, change := range changes {
		if err := change.Validate(); err != nil {
			return err
		}
		if change.OldEnd() > textLen {
			return &ValidationError{
				Change:  change,
				Message: fmt.Sprintf("end offset %d exceeds text length %d", change.OldEnd(), textLen),
			}
		}
	}
	return nil
}

// SortChanges sorts changes by start offset, then by old end offset.
func SortChanges(changes []TextChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].Start != changes[j].Start {
			return changes[i].Start < changes[j].Start
		}
		return changes[i].OldEnd() < changes[j].OldEnd()
	})
}

// SortedCopy returns the changes sorted ascending without touching the input.
func SortedCopy(changes []TextChange) []TextChange {
	sorted := make([]TextChange, len(changes))
	copy(sorted, changes)
	SortChanges(sorted)
	return sorted
}

// DetectOverlaps checks a sorted slice for overlapping removed regions.
func DetectOverlaps(changes []TextChange) error {
	for i := 1; i < len(changes); i++ {
		prev := changes[i-1]
		curr := changes[i]
		if curr.Start < prev.OldEnd() {
			return &OverlapError{First: prev, Second: curr}
		}
	}
	return nil
}

// PrepareChanges validates, sorts and checks for overlaps.
// The input slice is not modified.
func PrepareChanges(changes []TextChange, textLen int) ([]TextChange, error) {
	if len(changes) == 0 {
		return changes, nil
	}

	if err := ValidateChanges(changes, textLen); err != nil {
		return nil, err
	}

	result := SortedCopy(changes)
	if err := DetectOverlaps(result); err != nil {
		return nil, err
	}

	return result, nil
}

// TotalDelta returns the net length change of a batch.
func TotalDelta(changes []TextChange) int {
	delta := 0
	for _, change := range changes {
		delta += change.Delta()
	}
	return delta
}
