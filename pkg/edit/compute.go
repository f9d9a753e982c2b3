package edit

import "strings"

// Granularity controls how tightly ComputeChangesWith trims the coalesced edit.
type Granularity string

const (
	// GranularityLine replaces whole lines from the first to the last differing line.
	GranularityLine Granularity = "line"

	// GranularityChar additionally trims the common byte prefix and suffix
	// inside the differing line region.
	GranularityChar Granularity = "char"
)

// IsValid returns true if the granularity is known.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityLine, GranularityChar:
		return true
	default:
		return false
	}
}

// ComputeChanges reconstructs an edit batch from two full-text snapshots.
// The result is a single replacement spanning from the first differing line
// to the last differing line, or nil when the texts are equal.
func ComputeChanges(oldText, newText string) []TextChange {
	return ComputeChangesWith(oldText, newText, GranularityLine)
}

// ComputeChangesWith is ComputeChanges with a configurable granularity.
func ComputeChangesWith(oldText, newText string, granularity Granularity) []TextChange {
	if oldText == newText {
		return nil
	}

	oldLines := splitKeepEnds(oldText)
	newLines := splitKeepEnds(newText)

	// Common leading lines.
	head := 0
	for head < len(oldLines) && head < len(newLines) && oldLines[head] == newLines[head] {
		head++
	}

	// Common trailing lines, never overlapping the common head.
	tail := 0
	for tail < len(oldLines)-head && tail < len(newLines)-head &&
		oldLines[len(oldLines)-1-tail] == newLines[len(newLines)-1-tail] {
		tail++
	}

	start := lengthOf(oldLines[:head])
	oldEnd := len(oldText) - lengthOf(oldLines[len(oldLines)-tail:])
	newEnd := len(newText) - lengthOf(newLines[len(newLines)-tail:])

	change := TextChange{
		Start:     start,
		OldLength: oldEnd - start,
		NewText:   newText[start:newEnd],
	}

	if granularity == GranularityChar {
		change = trimCommonAffixes(oldText, change)
	}

	if change.IsNoOp() {
		return nil
	}
	return []TextChange{change}
}

// trimCommonAffixes narrows a replacement to the bytes that actually differ.
func trimCommonAffixes(oldText string, change TextChange) TextChange {
	removed := oldText[change.Start:change.OldEnd()]
	inserted := change.NewText

	prefix := 0
	for prefix < len(removed) && prefix < len(inserted) && removed[prefix] == inserted[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(removed)-prefix && suffix < len(inserted)-prefix &&
		removed[len(removed)-1-suffix] == inserted[len(inserted)-1-suffix] {
		suffix++
	}

	return TextChange{
		Start:     change.Start + prefix,
		OldLength: len(removed) - prefix - suffix,
		NewText:   inserted[prefix : len(inserted)-suffix],
	}
}

// splitKeepEnds splits text into lines, each keeping its terminator.
// A final line without a terminator is kept as-is.
func splitKeepEnds(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func lengthOf(lines []string) int {
	total := 0
	for _, line := range lines {
		total += len(line)
	}
	return total
}
