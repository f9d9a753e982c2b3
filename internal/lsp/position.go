package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
)

// byteOffset converts an LSP position (0-based line, UTF-16 character) to a
// byte offset. Positions past the end of a line clamp to its newline and
// lines past the end clamp to the end of the text.
func byteOffset(text string, lines *gdast.Lines, pos protocol.Position) int {
	info, ok := lines.Info(int(pos.Line) + 1)
	if !ok {
		return len(text)
	}

	units := int(pos.Character)
	offset := info.StartOffset
	for offset < info.NewlineStart && units > 0 {
		r, size := utf8.DecodeRuneInString(text[offset:info.NewlineStart])
		width := utf16.RuneLen(r)
		if width < 0 {
			width = 1
		}
		if width > units {
			break
		}
		units -= width
		offset += size
	}
	return offset
}

// position converts a byte offset to an LSP position.
func position(text string, lines *gdast.Lines, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))
	line, _ := lines.LineAt(offset)
	if line == 0 {
		return protocol.Position{}
	}
	info, _ := lines.Info(line)

	end := min(offset, info.NewlineStart)
	character := 0
	for _, r := range text[info.StartOffset:end] {
		width := utf16.RuneLen(r)
		if width < 0 {
			width = 1
		}
		character += width
	}

	return protocol.Position{
		Line:      protocol.UInteger(line - 1),
		Character: protocol.UInteger(character),
	}
}

// toTextChange converts an LSP range edit against text into a TextChange.
func toTextChange(text string, lines *gdast.Lines, rng protocol.Range, newText string) edit.TextChange {
	start := byteOffset(text, lines, rng.Start)
	end := max(byteOffset(text, lines, rng.End), start)
	return edit.Replace(start, end, newText)
}

// toRange converts a byte span to an LSP range.
func toRange(text string, lines *gdast.Lines, span edit.TextSpan) protocol.Range {
	return protocol.Range{
		Start: position(text, lines, span.Start),
		End:   position(text, lines, span.End()),
	}
}
