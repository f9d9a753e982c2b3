package gdast

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// MemberKind classifies a top-level member.
type MemberKind uint8

// Member kinds. The first three are class-wide attributes.
const (
	MemberExtends MemberKind = iota
	MemberClassName
	MemberClassAnnotation

	MemberFunc
	MemberVar
	MemberConst
	MemberSignal
	MemberEnum
	MemberClass
	MemberAnnotation
)

var memberKindNames = [...]string{
	MemberExtends:         "extends",
	MemberClassName:       "class_name",
	MemberClassAnnotation: "class_annotation",
	MemberFunc:            "func",
	MemberVar:             "var",
	MemberConst:           "const",
	MemberSignal:          "signal",
	MemberEnum:            "enum",
	MemberClass:           "class",
	MemberAnnotation:      "annotation",
}

func (k MemberKind) String() string {
	if int(k) < len(memberKindNames) {
		return memberKindNames[k]
	}
	return fmt.Sprintf("MemberKind(%d)", k)
}

// IsAttribute reports whether members of this kind change class-wide
// semantics (base type, global name, tool mode).
func (k MemberKind) IsAttribute() bool {
	return k <= MemberClassAnnotation
}

// ErrInvalidMember is returned when a member's tokens or nodes are malformed.
var ErrInvalidMember = errors.New("invalid member")

// MemberInfo carries the descriptive fields of a member.
type MemberInfo struct {
	Kind MemberKind

	// Name is the declared identifier (empty for extends and annotations).
	Name string

	// Detail is the rest of the declaration line, trimmed (parameters,
	// return type, base type, value).
	Detail string

	Static      bool
	Annotations []string
}

// Member is a top-level declaration together with its annotations, body and
// trailing trivia. A Member is immutable once constructed and carries no
// absolute position: token offsets are relative to the member's own text, so
// the same Member can be shared between trees.
type Member struct {
	info   MemberInfo
	text   string
	tokens []Token
	nodes  []Node
	hash   uint64
}

// NewMember builds a member from its source text, token stream and node
// arena. Node 0 must be the NodeMember root.
func NewMember(info MemberInfo, text string, tokens []Token, nodes []Node) (*Member, error) {
	if !ValidateTokens(tokens, len(text)) {
		return nil, fmt.Errorf("%w: token stream does not cover %d bytes", ErrInvalidMember, len(text))
	}
	if len(nodes) == 0 || nodes[0].Kind != NodeMember || nodes[0].Parent != NoNode {
		return nil, fmt.Errorf("%w: missing member root node", ErrInvalidMember)
	}
	for idx, node := range nodes {
		if node.FirstToken > node.LastToken || node.LastToken >= len(tokens) ||
			(node.FirstToken < 0) != (node.LastToken < 0) {
			return nil, fmt.Errorf("%w: node %d has token span [%d, %d]",
				ErrInvalidMember, idx, node.FirstToken, node.LastToken)
		}
	}

	if info.Annotations != nil {
		info.Annotations = append([]string(nil), info.Annotations...)
	}

	return &Member{
		info:   info,
		text:   text,
		tokens: tokens,
		nodes:  nodes,
		hash:   xxhash.Sum64String(text),
	}, nil
}

// Kind returns the member kind.
func (m *Member) Kind() MemberKind { return m.info.Kind }

// Name returns the declared name.
func (m *Member) Name() string { return m.info.Name }

// Detail returns the declaration detail.
func (m *Member) Detail() string { return m.info.Detail }

// Static reports whether the member was declared static.
func (m *Member) Static() bool { return m.info.Static }

// Annotations returns the names of attached annotations, without '@'.
func (m *Member) Annotations() []string {
	return append([]string(nil), m.info.Annotations...)
}

// Info returns a copy of the member's descriptive fields.
func (m *Member) Info() MemberInfo {
	info := m.info
	info.Annotations = m.Annotations()
	return info
}

// IsAttribute reports whether the member is a class-wide attribute.
func (m *Member) IsAttribute() bool {
	return m.info.Kind.IsAttribute()
}

// OriginLength returns the number of source bytes the member was parsed from.
func (m *Member) OriginLength() int {
	return len(m.text)
}

// Render returns the member's source text.
func (m *Member) Render() string {
	return m.text
}

// Hash returns the xxhash of the rendered text. Equal hashes do not prove
// equality; different hashes prove inequality.
func (m *Member) Hash() uint64 {
	return m.hash
}

// Tokens returns the member's token stream. Callers must not modify it.
func (m *Member) Tokens() []Token {
	return m.tokens
}

// TokenText returns the source text of the token at index i.
func (m *Member) TokenText(i int) string {
	if i < 0 || i >= len(m.tokens) {
		return ""
	}
	return m.tokens[i].Text(m.text)
}

// NodeCount returns the number of arena nodes.
func (m *Member) NodeCount() int {
	return len(m.nodes)
}

// Node returns the arena node at index i.
func (m *Member) Node(i int) (Node, bool) {
	if i < 0 || i >= len(m.nodes) {
		return Node{}, false
	}
	return m.nodes[i], true
}

// NodeText returns the source text spanned by the node at index i.
func (m *Member) NodeText(i int) string {
	node, ok := m.Node(i)
	if !ok || node.FirstToken < 0 {
		return ""
	}
	return m.text[m.tokens[node.FirstToken].Start:m.tokens[node.LastToken].End]
}

// Declaration returns the arena index of the declaration line, or NoNode.
func (m *Member) Declaration() int {
	for child := m.nodes[0].FirstChild; child != NoNode; child = m.nodes[child].NextSibling {
		if m.nodes[child].Kind == NodeDeclaration {
			return child
		}
	}
	return NoNode
}

// Equal reports whether two members render to the same text.
func (m *Member) Equal(other *Member) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	return m.hash == other.hash && m.text == other.text
}
