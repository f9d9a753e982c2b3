package incremental

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gdparse/pkg/gdast"
)

// FileParser parses GDScript text into a Tree.
//
// The incremental package defines this interface to follow the gobible
// principle of defining interfaces in the consumer package. Implementations
// (e.g., gdparser) provide the concrete parsing logic.
//
// Implementations must be:
//   - deterministic for a given text,
//   - able to parse any substring that starts at a line boundary,
//   - side-effect free (no I/O, no global state mutation).
type FileParser interface {
	ParseFile(ctx context.Context, text string) (*gdast.Tree, error)
}

const trailingSpace = " \t\r\n"

// MemberReparser parses one member's region of the new text in isolation.
type MemberReparser struct {
	parser FileParser
}

// NewMemberReparser creates a reparser backed by parser.
func NewMemberReparser(parser FileParser) *MemberReparser {
	return &MemberReparser{parser: parser}
}

// Reparse parses newText[lineStart(start):end) and returns the single member
// it contains. Any doubt about the fragment standing on its own yields a
// *ReparseError. Cancellation errors are returned unchanged so that callers
// can propagate them. Panics in the underlying parser are recovered here.
func (r *MemberReparser) Reparse(ctx context.Context, newText string, start, end int) (member *gdast.Member, err error) {
	if start < 0 || start > len(newText) {
		return nil, &ReparseError{Start: start, End: end, Reason: "start out of range"}
	}

	lineStart := gdast.LineStart(newText, start)
	if end <= lineStart || end > len(newText) {
		return nil, &ReparseError{Start: lineStart, End: end, Reason: "empty or out of range region"}
	}

	fragment := newText[lineStart:end]
	if end < len(newText) && !endsWithNewline(fragment) {
		return nil, &ReparseError{Start: lineStart, End: end, Reason: "region does not end at a line break"}
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			member = nil
			err = &ReparseError{
				Start:  lineStart,
				End:    end,
				Reason: "parser panic",
				Cause:  fmt.Errorf("%v", recovered),
			}
		}
	}()

	tree, parseErr := r.parser.ParseFile(ctx, fragment)
	if parseErr != nil {
		if errors.Is(parseErr, context.Canceled) || errors.Is(parseErr, context.DeadlineExceeded) {
			return nil, parseErr
		}
		return nil, &ReparseError{Start: lineStart, End: end, Reason: "parse failed", Cause: parseErr}
	}

	if reason := checkFragmentTree(tree, fragment); reason != "" {
		return nil, &ReparseError{Start: lineStart, End: end, Reason: reason}
	}

	return tree.Members[0], nil
}

// checkFragmentTree verifies that a fragment parsed into exactly what a full
// parse would have produced for that region.
func checkFragmentTree(tree *gdast.Tree, fragment string) string {
	if tree == nil {
		return "parser returned no tree"
	}
	if tree.PrefixLength() != 0 {
		return "region starts with trivia"
	}
	if len(tree.Members) != 1 {
		return fmt.Sprintf("region parsed into %d members", len(tree.Members))
	}

	member := tree.Members[0]
	switch {
	case member.IsAttribute():
		return "region became a class attribute"
	case member.Kind() == gdast.MemberAnnotation:
		return "region ends with a dangling annotation"
	case endsWithContinuation(member):
		return "region ends with a line continuation"
	}

	rendered := member.Render()
	if strings.TrimRight(rendered, trailingSpace) != strings.TrimRight(fragment, trailingSpace) {
		return "rendered text differs from source"
	}
	if member.OriginLength() != len(fragment) {
		return "origin length differs from source"
	}

	return ""
}

func endsWithNewline(text string) bool {
	return strings.HasSuffix(text, "\n") || strings.HasSuffix(text, "\r")
}

// endsWithContinuation reports a final newline escaped by '\', which would
// join the next member's first line in a full parse.
func endsWithContinuation(member *gdast.Member) bool {
	tokens := member.Tokens()
	n := len(tokens)
	return n >= 2 && tokens[n-1].Kind == gdast.TokNewline && tokens[n-2].Kind == gdast.TokContinuation
}
