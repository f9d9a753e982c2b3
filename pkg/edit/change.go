// Package edit provides the text change and span primitives used by the
// incremental parser, along with validation, application and diffing helpers.
package edit

import (
	"errors"
	"fmt"
)

// Sentinel errors for change handling.
var (
	// ErrInvalidChange indicates a change with negative offsets or lengths.
	ErrInvalidChange = errors.New("invalid text change")

	// ErrOutOfRange indicates a change that reaches past the end of the text.
	ErrOutOfRange = errors.New("text change out of range")
)

// TextChange describes a single edit: OldLength bytes starting at Start are
// replaced by NewText.
type TextChange struct {
	// Start is the byte offset where the change begins.
	Start int

	// OldLength is the number of bytes removed from the original text.
	OldLength int

	// NewText is the inserted replacement text.
	NewText string
}

// Insert returns a change inserting text at offset.
func Insert(offset int, text string) TextChange {
	return TextChange{Start: offset, NewText: text}
}

// Delete returns a change removing bytes [start, end).
func Delete(start, end int) TextChange {
	return TextChange{Start: start, OldLength: end - start}
}

// Replace returns a change replacing bytes [start, end) with text.
func Replace(start, end int, text string) TextChange {
	return TextChange{Start: start, OldLength: end - start, NewText: text}
}

// OldEnd returns the exclusive end of the removed region.
func (c TextChange) OldEnd() int {
	return c.Start + c.OldLength
}

// NewLength returns the length of the inserted text.
func (c TextChange) NewLength() int {
	return len(c.NewText)
}

// NewEnd returns the exclusive end of the inserted text in the new text.
func (c TextChange) NewEnd() int {
	return c.Start + len(c.NewText)
}

// Delta returns how much the change grows (positive) or shrinks (negative) the text.
func (c TextChange) Delta() int {
	return len(c.NewText) - c.OldLength
}

// IsInsertion reports a pure insertion.
func (c TextChange) IsInsertion() bool {
	return c.OldLength == 0 && len(c.NewText) > 0
}

// IsDeletion reports a pure deletion.
func (c TextChange) IsDeletion() bool {
	return len(c.NewText) == 0 && c.OldLength > 0
}

// IsReplacement reports a change that both removes and inserts text.
func (c TextChange) IsReplacement() bool {
	return c.OldLength > 0 && len(c.NewText) > 0
}

// IsNoOp reports a change that neither removes nor inserts anything.
func (c TextChange) IsNoOp() bool {
	return c.OldLength == 0 && len(c.NewText) == 0
}

// Span returns the removed region as a span in old-text coordinates.
func (c TextChange) Span() TextSpan {
	return TextSpan{Start: c.Start, Length: c.OldLength}
}

// Validate checks the change's own invariants.
func (c TextChange) Validate() error {
	if c.Start < 0 {
		return &ValidationError{Change: c, Message: "start offset is negative"}
	}
	if c.OldLength < 0 {
		return &ValidationError{Change: c, Message: "old length is negative"}
	}
	return nil
}

// Apply returns original with the change applied.
func (c TextChange) Apply(original string) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.Start > len(original) || c.OldEnd() > len(original) {
		return "", fmt.Errorf("%w: [%d:%d] exceeds length %d",
			ErrOutOfRange, c.Start, c.OldEnd(), len(original))
	}
	return original[:c.Start] + c.NewText + original[c.OldEnd():], nil
}

// AdjustPosition maps a position in the old text to the new text.
// Positions inside the removed region collapse to the end of the insertion.
func (c TextChange) AdjustPosition(pos int) int {
	switch {
	case pos <= c.Start:
		return pos
	case pos >= c.OldEnd():
		return pos + c.Delta()
	default:
		return c.NewEnd()
	}
}

// AdjustSpan maps a span in the old text to the new text.
// The boolean result is true when the span lay wholly inside the removed
// region; the returned span is then empty and sits at the insertion point.
func (c TextChange) AdjustSpan(span TextSpan) (TextSpan, bool) {
	if c.OldLength > 0 && span.Start >= c.Start && span.End() <= c.OldEnd() &&
		!(span.IsEmpty() && (span.Start == c.Start || span.Start == c.OldEnd())) {
		return TextSpan{Start: c.Start, Length: 0}, true
	}

	start := c.AdjustPosition(span.Start)
	end := c.AdjustPosition(span.End())
	if end < start {
		end = start
	}
	return TextSpan{Start: start, Length: end - start}, false
}

// String renders the change for logs and test failures.
func (c TextChange) String() string {
	return fmt.Sprintf("[%d:%d]->%q", c.Start, c.OldEnd(), c.NewText)
}
