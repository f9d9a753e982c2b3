package gdparser

import "github.com/yaklabco/gdparse/pkg/gdast"

// logicalLine is a run of tokens ending at a newline that is outside any
// bracket and not preceded by a line continuation (or at end of input).
type logicalLine struct {
	// first and last are inclusive token indices.
	first int
	last  int

	// indent is the byte width of leading whitespace.
	indent int

	// trivia is true when the line holds only whitespace, comments and the
	// newline.
	trivia bool

	// significant lists the indices of non-trivia tokens, excluding
	// continuations.
	significant []int
}

// splitLogicalLines groups a token stream into logical lines. Bracket balance
// has already been validated by the scanner.
func splitLogicalLines(tokens []gdast.Token) []logicalLine {
	var (
		lines []logicalLine
		depth int
		cur   = logicalLine{first: 0, trivia: true}
	)

	flush := func(last int) {
		cur.last = last
		lines = append(lines, cur)
		cur = logicalLine{first: last + 1, trivia: true}
	}

	for idx, tok := range tokens {
		switch tok.Kind {
		case gdast.TokOpenBracket:
			depth++
		case gdast.TokCloseBracket:
			depth--
		}

		if idx == cur.first && tok.Kind == gdast.TokWhitespace {
			cur.indent = tok.Len()
		}

		switch tok.Kind {
		case gdast.TokWhitespace, gdast.TokComment, gdast.TokContinuation:
		case gdast.TokNewline:
			continued := idx > 0 && tokens[idx-1].Kind == gdast.TokContinuation
			if depth == 0 && !continued {
				flush(idx)
			}
		default:
			cur.trivia = false
			cur.significant = append(cur.significant, idx)
		}
	}

	if cur.first < len(tokens) {
		flush(len(tokens) - 1)
	}

	return lines
}
