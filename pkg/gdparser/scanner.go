package gdparser

import (
	"unicode/utf8"

	"github.com/yaklabco/gdparse/pkg/gdast"
)

var keywords = map[string]struct{}{
	"and": {}, "as": {}, "assert": {}, "await": {}, "break": {}, "breakpoint": {},
	"class": {}, "class_name": {}, "const": {}, "continue": {}, "elif": {},
	"else": {}, "enum": {}, "extends": {}, "false": {}, "for": {}, "func": {},
	"if": {}, "in": {}, "is": {}, "match": {}, "not": {}, "null": {}, "or": {},
	"pass": {}, "preload": {}, "return": {}, "self": {}, "signal": {},
	"static": {}, "super": {}, "true": {}, "var": {}, "void": {}, "when": {},
	"while": {}, "yield": {}, "PI": {}, "TAU": {}, "INF": {}, "NAN": {},
}

// Longest operators first so the scanner can match greedily.
var operators = []string{
	"**=", "<<=", ">>=",
	"**", "<<", ">>", "==", "!=", "<=", ">=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", ":=",
	"+", "-", "*", "/", "%", "<", ">", "=", "!", "&", "|", "^", "~",
}

// scanError is a positioned failure; the parser turns it into a ParseError.
type scanError struct {
	offset int
	err    error
}

// scanner performs a single pass over the text and produces a contiguous,
// non-overlapping token stream covering [0, len(text)).
type scanner struct {
	text     string
	tokens   []gdast.Token
	pos      int
	maxDepth int

	// brackets holds the offsets of currently open brackets.
	brackets []int
}

// scan tokenizes text. Bracket balance is checked here because strings and
// comments must be skipped to find the real brackets.
func scan(text string, maxDepth int) ([]gdast.Token, *scanError) {
	const initialCapacityDivisor = 3
	s := &scanner{
		text:     text,
		tokens:   make([]gdast.Token, 0, len(text)/initialCapacityDivisor+1),
		maxDepth: maxDepth,
	}

	for s.pos < len(s.text) {
		if err := s.next(); err != nil {
			return nil, err
		}
	}

	if len(s.brackets) > 0 {
		return nil, &scanError{offset: s.brackets[len(s.brackets)-1], err: ErrUnclosedBracket}
	}

	return s.tokens, nil
}

func (s *scanner) emit(kind gdast.TokenKind, start int) {
	s.tokens = append(s.tokens, gdast.Token{Kind: kind, Start: start, End: s.pos})
}

func (s *scanner) peek(n int) byte {
	if s.pos+n >= len(s.text) {
		return 0
	}
	return s.text[s.pos+n]
}

//nolint:gocyclo,cyclop // one dispatch switch over the leading byte
func (s *scanner) next() *scanError {
	start := s.pos
	char := s.text[s.pos]

	switch {
	case char == ' ' || char == '\t' || char == '\f':
		for s.pos < len(s.text) && (s.text[s.pos] == ' ' || s.text[s.pos] == '\t' || s.text[s.pos] == '\f') {
			s.pos++
		}
		s.emit(gdast.TokWhitespace, start)

	case char == '\n':
		s.pos++
		s.emit(gdast.TokNewline, start)

	case char == '\r':
		s.pos++
		if s.peek(0) == '\n' {
			s.pos++
		}
		s.emit(gdast.TokNewline, start)

	case char == '#':
		for s.pos < len(s.text) && s.text[s.pos] != '\n' && s.text[s.pos] != '\r' {
			s.pos++
		}
		s.emit(gdast.TokComment, start)

	case char == '\\':
		s.pos++
		switch s.peek(0) {
		case '\n', '\r':
			s.emit(gdast.TokContinuation, start)
		case 0:
			if s.pos >= len(s.text) {
				return &scanError{offset: start, err: ErrDanglingContinuation}
			}
			s.emit(gdast.TokOther, start)
		default:
			s.emit(gdast.TokOther, start)
		}

	case char == '"' || char == '\'':
		return s.scanString(start)

	case (char == 'r' || char == '&' || char == '^') && isQuote(s.peek(1)):
		s.pos++
		return s.scanString(start)

	case isIdentStart(char):
		s.scanIdentifier()
		if _, ok := keywords[s.text[start:s.pos]]; ok {
			s.emit(gdast.TokKeyword, start)
		} else {
			s.emit(gdast.TokIdentifier, start)
		}

	case isDigit(char) || (char == '.' && isDigit(s.peek(1))):
		s.scanNumber()
		s.emit(gdast.TokNumber, start)

	case char == '@' && isIdentStart(s.peek(1)):
		s.pos++
		s.scanIdentifier()
		s.emit(gdast.TokAnnotation, start)

	case char == '$' || (char == '%' && s.startsNodePath()):
		return s.scanNodePath(start)

	case char == '(' || char == '[' || char == '{':
		if s.maxDepth > 0 && len(s.brackets) >= s.maxDepth {
			return &scanError{offset: start, err: ErrNestingTooDeep}
		}
		s.brackets = append(s.brackets, start)
		s.pos++
		s.emit(gdast.TokOpenBracket, start)

	case char == ')' || char == ']' || char == '}':
		if len(s.brackets) == 0 || !matches(s.text[s.brackets[len(s.brackets)-1]], char) {
			return &scanError{offset: start, err: ErrUnbalancedBracket}
		}
		s.brackets = s.brackets[:len(s.brackets)-1]
		s.pos++
		s.emit(gdast.TokCloseBracket, start)

	case char == ':' && s.peek(1) != '=':
		s.pos++
		s.emit(gdast.TokColon, start)

	case char == ',':
		s.pos++
		s.emit(gdast.TokComma, start)

	case char == '-' && s.peek(1) == '>':
		s.pos += 2
		s.emit(gdast.TokArrow, start)

	case char == '.':
		s.pos++
		if s.peek(0) == '.' {
			s.pos++
		}
		s.emit(gdast.TokPeriod, start)

	default:
		if op := s.matchOperator(); op > 0 {
			s.pos += op
			s.emit(gdast.TokOperator, start)
			return nil
		}
		_, width := utf8.DecodeRuneInString(s.text[s.pos:])
		s.pos += width
		s.emit(gdast.TokOther, start)
	}

	return nil
}

// scanString scans a quoted string starting at s.pos. start includes any
// prefix byte already consumed.
func (s *scanner) scanString(start int) *scanError {
	quote := s.text[s.pos]
	triple := s.peek(1) == quote && s.peek(2) == quote
	if triple {
		s.pos += 3
	} else {
		s.pos++
	}

	for s.pos < len(s.text) {
		char := s.text[s.pos]
		switch {
		case char == '\\':
			s.pos += 2
			if s.pos > len(s.text) {
				s.pos = len(s.text)
			}
		case char == quote && !triple:
			s.pos++
			s.emit(gdast.TokString, start)
			return nil
		case char == quote && s.peek(1) == quote && s.peek(2) == quote:
			s.pos += 3
			s.emit(gdast.TokString, start)
			return nil
		case (char == '\n' || char == '\r') && !triple:
			return &scanError{offset: start, err: ErrUnterminatedString}
		default:
			s.pos++
		}
	}

	return &scanError{offset: start, err: ErrUnterminatedString}
}

// scanNodePath scans $Path/To/Node, $"Quoted", %Unique and %"Quoted".
func (s *scanner) scanNodePath(start int) *scanError {
	s.pos++
	if isQuote(s.peek(0)) {
		if err := s.scanString(start); err != nil {
			return err
		}
		// scanString emitted a string token; reclassify it.
		s.tokens[len(s.tokens)-1].Kind = gdast.TokNodePath
		return nil
	}

	for s.pos < len(s.text) {
		char := s.text[s.pos]
		if !isIdentPart(char) && char != '/' && char != '%' {
			break
		}
		s.pos++
	}
	s.emit(gdast.TokNodePath, start)
	return nil
}

// startsNodePath decides whether '%' begins a unique node path rather than
// the modulo operator, based on the previous significant token.
func (s *scanner) startsNodePath() bool {
	next := s.peek(1)
	if !isIdentStart(next) && !isQuote(next) {
		return false
	}
	for idx := len(s.tokens) - 1; idx >= 0; idx-- {
		tok := s.tokens[idx]
		if tok.Kind == gdast.TokWhitespace {
			continue
		}
		switch tok.Kind {
		case gdast.TokIdentifier, gdast.TokNumber, gdast.TokString,
			gdast.TokNodePath, gdast.TokCloseBracket:
			return false
		case gdast.TokKeyword:
			word := tok.Text(s.text)
			return word != "self" && word != "true" && word != "false" && word != "null"
		default:
			return true
		}
	}
	return true
}

func (s *scanner) matchOperator() int {
	rest := s.text[s.pos:]
	for _, op := range operators {
		if len(rest) >= len(op) && rest[:len(op)] == op {
			return len(op)
		}
	}
	return 0
}

func (s *scanner) scanIdentifier() {
	for s.pos < len(s.text) && isIdentPart(s.text[s.pos]) {
		s.pos++
	}
}

func (s *scanner) scanNumber() {
	if s.text[s.pos] == '0' && (s.peek(1) == 'x' || s.peek(1) == 'X' || s.peek(1) == 'b' || s.peek(1) == 'B') {
		s.pos += 2
		for s.pos < len(s.text) && (isHexDigit(s.text[s.pos]) || s.text[s.pos] == '_') {
			s.pos++
		}
		return
	}

	for s.pos < len(s.text) && (isDigit(s.text[s.pos]) || s.text[s.pos] == '_') {
		s.pos++
	}
	if s.peek(0) == '.' && s.peek(1) != '.' {
		s.pos++
		for s.pos < len(s.text) && (isDigit(s.text[s.pos]) || s.text[s.pos] == '_') {
			s.pos++
		}
	}
	if char := s.peek(0); char == 'e' || char == 'E' {
		exp := s.pos + 1
		if exp < len(s.text) && (s.text[exp] == '+' || s.text[exp] == '-') {
			exp++
		}
		if exp < len(s.text) && isDigit(s.text[exp]) {
			s.pos = exp
			for s.pos < len(s.text) && isDigit(s.text[s.pos]) {
				s.pos++
			}
		}
	}
}

func isQuote(char byte) bool {
	return char == '"' || char == '\''
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

func isHexDigit(char byte) bool {
	return isDigit(char) || (char >= 'a' && char <= 'f') || (char >= 'A' && char <= 'F')
}

// isIdentStart accepts ASCII letters, '_' and any non-ASCII byte so that
// Unicode identifiers stay in one token.
func isIdentStart(char byte) bool {
	return char == '_' || (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || char >= utf8.RuneSelf
}

func isIdentPart(char byte) bool {
	return isIdentStart(char) || isDigit(char)
}

func matches(open, closing byte) bool {
	switch open {
	case '(':
		return closing == ')'
	case '[':
		return closing == ']'
	case '{':
		return closing == '}'
	default:
		return false
	}
}
