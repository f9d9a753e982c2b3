package gdast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gdparse/pkg/gdast"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []gdast.LineInfo
	}{
		{
			name:    "single line no newline",
			content: "pass",
			expected: []gdast.LineInfo{
				{StartOffset: 0, NewlineStart: 4, EndOffset: 4},
			},
		},
		{
			name:    "LF lines",
			content: "a\nbc\n",
			expected: []gdast.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 2},
				{StartOffset: 2, NewlineStart: 4, EndOffset: 5},
				{StartOffset: 5, NewlineStart: 5, EndOffset: 5},
			},
		},
		{
			name:    "CRLF lines",
			content: "a\r\nb",
			expected: []gdast.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 4, EndOffset: 4},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			lines := gdast.BuildLines(testCase.content)
			assert.Equal(t, len(testCase.expected), lines.Count())
			for idx, want := range testCase.expected {
				got, ok := lines.Info(idx + 1)
				assert.True(t, ok)
				assert.Equal(t, want, got)
			}
		})
	}

	assert.Zero(t, gdast.BuildLines("").Count())
}

func TestLinesLineAtAndOffset(t *testing.T) {
	t.Parallel()

	lines := gdast.BuildLines("func a():\r\n\tpass\n")

	tests := []struct {
		offset int
		line   int
		col    int
	}{
		{offset: 0, line: 1, col: 1},
		{offset: 9, line: 1, col: 10},
		{offset: 11, line: 2, col: 1},
		{offset: 12, line: 2, col: 2},
		{offset: 17, line: 3, col: 1},
	}

	for _, testCase := range tests {
		line, col := lines.LineAt(testCase.offset)
		assert.Equal(t, testCase.line, line, "line for offset %d", testCase.offset)
		assert.Equal(t, testCase.col, col, "column for offset %d", testCase.offset)

		offset, ok := lines.Offset(testCase.line, testCase.col)
		assert.True(t, ok)
		assert.Equal(t, testCase.offset, offset)
	}

	line, col := lines.LineAt(-1)
	assert.Zero(t, line)
	assert.Zero(t, col)

	_, ok := lines.Offset(1, 12)
	assert.False(t, ok, "column inside CRLF is not addressable")

	_, ok = lines.Offset(4, 1)
	assert.False(t, ok)

	assert.Equal(t, "\tpass", lines.Content(2))
}

func TestLineStart(t *testing.T) {
	t.Parallel()

	text := "a\nbcd\n"
	assert.Equal(t, 0, gdast.LineStart(text, 0))
	assert.Equal(t, 0, gdast.LineStart(text, 1))
	assert.Equal(t, 2, gdast.LineStart(text, 2))
	assert.Equal(t, 2, gdast.LineStart(text, 4))
	assert.Equal(t, 6, gdast.LineStart(text, 6))
	assert.Equal(t, 6, gdast.LineStart(text, 99))
}
