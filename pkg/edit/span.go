package edit

import "fmt"

// TextSpan is a half-open byte range [Start, Start+Length).
type TextSpan struct {
	// Start is the byte offset where the span begins (inclusive).
	Start int

	// Length is the number of bytes covered.
	Length int
}

// NewSpan builds a span from start and exclusive end offsets.
func NewSpan(start, end int) TextSpan {
	return TextSpan{Start: start, Length: end - start}
}

// End returns the exclusive end offset.
func (s TextSpan) End() int {
	return s.Start + s.Length
}

// IsEmpty returns true if the span has zero length.
func (s TextSpan) IsEmpty() bool {
	return s.Length == 0
}

// Contains returns true if offset lies within [Start, End).
func (s TextSpan) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

// ContainsSpan returns true if other lies entirely within s.
func (s TextSpan) ContainsSpan(other TextSpan) bool {
	return other.Start >= s.Start && other.End() <= s.End()
}

// Overlaps returns true if the two spans share at least one byte.
func (s TextSpan) Overlaps(other TextSpan) bool {
	return max(s.Start, other.Start) < min(s.End(), other.End())
}

// OverlapsChange returns true if the change touches the span. Insertions
// count when they land strictly inside the span.
func (s TextSpan) OverlapsChange(change TextChange) bool {
	if change.OldLength == 0 {
		return change.Start > s.Start && change.Start < s.End()
	}
	return s.Overlaps(change.Span())
}

// Intersection returns the overlap of the two spans and whether one exists.
func (s TextSpan) Intersection(other TextSpan) (TextSpan, bool) {
	start := max(s.Start, other.Start)
	end := min(s.End(), other.End())
	if end < start {
		return TextSpan{}, false
	}
	return NewSpan(start, end), true
}

// Union returns the smallest span covering both spans.
func (s TextSpan) Union(other TextSpan) TextSpan {
	return NewSpan(min(s.Start, other.Start), max(s.End(), other.End()))
}

// Text returns the covered slice of text, or "" when out of range.
func (s TextSpan) Text(text string) string {
	if s.Start < 0 || s.Length < 0 || s.End() > len(text) {
		return ""
	}
	return text[s.Start:s.End()]
}

func (s TextSpan) String() string {
	return fmt.Sprintf("[%d..%d)", s.Start, s.End())
}
