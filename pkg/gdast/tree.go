// Package gdast provides the lossless tree representation of a GDScript file.
// It defines:
// - Tree: the prefix trivia followed by the ordered top-level members
// - Member: an immutable, position-independent declaration with its tokens
// - Node: statement nodes kept in a per-member arena addressed by index
package gdast

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMemberIndex is returned when a member index is out of range.
var ErrMemberIndex = errors.New("member index out of range")

// Prefix is the leading trivia (blank lines and comments) before the first
// member.
type Prefix struct {
	text   string
	tokens []Token
}

// NewPrefix builds a prefix from its text and token stream.
func NewPrefix(text string, tokens []Token) (*Prefix, error) {
	if !ValidateTokens(tokens, len(text)) {
		return nil, fmt.Errorf("%w: prefix tokens do not cover %d bytes", ErrInvalidMember, len(text))
	}
	for _, tok := range tokens {
		if !tok.IsTrivia() {
			return nil, fmt.Errorf("%w: prefix may only hold trivia", ErrInvalidMember)
		}
	}
	return &Prefix{text: text, tokens: tokens}, nil
}

// Render returns the prefix text.
func (p *Prefix) Render() string {
	if p == nil {
		return ""
	}
	return p.text
}

// Tokens returns the prefix tokens. Callers must not modify them.
func (p *Prefix) Tokens() []Token {
	if p == nil {
		return nil
	}
	return p.tokens
}

// Tree is a parsed file: an optional trivia prefix followed by the members in
// source order. A Tree returned by a parser is treated as immutable; Clone
// and ReplaceMember build new versions that share untouched members.
type Tree struct {
	Prefix  *Prefix
	Members []*Member
}

// Clone returns a tree with its own member slice. Members are shared.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	members := make([]*Member, len(t.Members))
	copy(members, t.Members)
	return &Tree{Prefix: t.Prefix, Members: members}
}

// ReplaceMember overwrites the member at index i and returns the old one.
// Only call this on a tree obtained from Clone.
func (t *Tree) ReplaceMember(i int, member *Member) (*Member, error) {
	if i < 0 || i >= len(t.Members) {
		return nil, fmt.Errorf("%w: %d of %d", ErrMemberIndex, i, len(t.Members))
	}
	if member == nil {
		return nil, fmt.Errorf("%w: nil replacement at %d", ErrInvalidMember, i)
	}
	old := t.Members[i]
	t.Members[i] = member
	return old, nil
}

// PrefixLength returns the byte length of the prefix.
func (t *Tree) PrefixLength() int {
	if t == nil || t.Prefix == nil {
		return 0
	}
	return len(t.Prefix.text)
}

// OriginLength returns the number of source bytes the tree covers.
func (t *Tree) OriginLength() int {
	if t == nil {
		return 0
	}
	total := t.PrefixLength()
	for _, member := range t.Members {
		total += member.OriginLength()
	}
	return total
}

// Render returns the source text of the tree.
func (t *Tree) Render() string {
	if t == nil {
		return ""
	}
	var builder strings.Builder
	builder.Grow(t.OriginLength())
	builder.WriteString(t.Prefix.Render())
	for _, member := range t.Members {
		builder.WriteString(member.Render())
	}
	return builder.String()
}

// MemberStart returns the byte offset at which member i starts.
func (t *Tree) MemberStart(i int) (int, bool) {
	if t == nil || i < 0 || i >= len(t.Members) {
		return 0, false
	}
	offset := t.PrefixLength()
	for _, member := range t.Members[:i] {
		offset += member.OriginLength()
	}
	return offset, true
}
