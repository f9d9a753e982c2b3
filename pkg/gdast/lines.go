package gdast

import "sort"

// LineInfo holds metadata for a single line of text.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of text).
	EndOffset int
}

// Lines is a line index over a text.
type Lines struct {
	text  string
	lines []LineInfo
}

// BuildLines indexes the lines of text. LF and CRLF endings are recognised.
func BuildLines(text string) *Lines {
	index := &Lines{text: text}
	if len(text) == 0 {
		return index
	}

	lineStart := 0
	for idx := range len(text) {
		if text[idx] != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && text[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		index.lines = append(index.lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	index.lines = append(index.lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(text),
		EndOffset:    len(text),
	})

	return index
}

// Count returns the number of lines.
func (l *Lines) Count() int {
	return len(l.lines)
}

// Info returns the metadata of a 1-based line.
func (l *Lines) Info(line int) (LineInfo, bool) {
	if line < 1 || line > len(l.lines) {
		return LineInfo{}, false
	}
	return l.lines[line-1], true
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes. Returns (0, 0) if the offset is out of range.
func (l *Lines) LineAt(offset int) (int, int) {
	if offset < 0 || offset > len(l.text) || len(l.lines) == 0 {
		return 0, 0
	}

	lineIdx := sort.Search(len(l.lines), func(i int) bool {
		return l.lines[i].EndOffset > offset
	})
	if lineIdx >= len(l.lines) {
		lineIdx = len(l.lines) - 1
	}

	return lineIdx + 1, offset - l.lines[lineIdx].StartOffset + 1
}

// Offset converts 1-based line and column numbers to a byte offset.
// The column may point just past the line content.
func (l *Lines) Offset(line, col int) (int, bool) {
	info, ok := l.Info(line)
	if !ok || col < 1 {
		return 0, false
	}

	offset := info.StartOffset + col - 1
	if offset > info.NewlineStart {
		return 0, false
	}
	return offset, true
}

// Content returns the text of a 1-based line without its newline.
func (l *Lines) Content(line int) string {
	info, ok := l.Info(line)
	if !ok {
		return ""
	}
	return l.text[info.StartOffset:info.NewlineStart]
}

// LineStart returns the offset of the start of the line containing offset.
func LineStart(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	for offset > 0 && text[offset-1] != '\n' {
		offset--
	}
	return max(offset, 0)
}
