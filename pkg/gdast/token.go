package gdast

//go:generate stringer -type=TokenKind -trimprefix=Tok

// TokenKind classifies the type of a token in GDScript source.
type TokenKind uint16

// Token kinds cover every byte of the source.
const (
	TokWhitespace TokenKind = iota
	TokNewline
	TokComment

	TokIdentifier
	TokKeyword
	TokNumber
	TokString     // "..", '..', """..""", r"..", &"..", ^".."
	TokAnnotation // @export, @tool
	TokNodePath   // $Path/To, %Unique

	TokOperator
	TokOpenBracket  // ( [ {
	TokCloseBracket // ) ] }
	TokColon
	TokComma
	TokPeriod
	TokArrow        // ->
	TokContinuation // '\' before a newline

	TokOther
)

// Token represents a classified span of bytes.
// Offsets are relative to the text that owns the token stream (a member or
// the tree prefix), not to the whole file.
type Token struct {
	// Kind classifies what this token represents.
	Kind TokenKind

	// Start is the byte index where this token begins (inclusive).
	Start int

	// End is the byte index where this token ends (exclusive).
	End int
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content string) string {
	if t.Start < 0 || t.End > len(content) || t.Start > t.End {
		return ""
	}
	return content[t.Start:t.End]
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// IsTrivia reports whitespace, newlines and comments.
func (t Token) IsTrivia() bool {
	return t.Kind == TokWhitespace || t.Kind == TokNewline || t.Kind == TokComment
}

// Shift returns the token moved by delta bytes.
func (t Token) Shift(delta int) Token {
	return Token{Kind: t.Kind, Start: t.Start + delta, End: t.End + delta}
}

// ValidateTokens checks that tokens are contiguous, non-overlapping and
// cover exactly [0, contentLen).
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}

	if tokens[0].Start != 0 {
		return false
	}
	if tokens[len(tokens)-1].End != contentLen {
		return false
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i].Start != tokens[i-1].End {
			return false
		}
	}

	return true
}
