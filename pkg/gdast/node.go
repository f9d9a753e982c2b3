package gdast

//go:generate stringer -type=NodeKind -trimprefix=Node

// NodeKind classifies a node in a member's statement arena.
type NodeKind uint16

// Node kinds.
const (
	// NodeMember is the arena root; it spans every token of the member.
	NodeMember NodeKind = iota

	// NodeAnnotation is an annotation line attached to the declaration.
	NodeAnnotation

	// NodeDeclaration is the logical line that declares the member.
	NodeDeclaration

	// NodeStatement is one logical line of a block body. Statements that open
	// a block hold their nested statements as children.
	NodeStatement
)

// NoNode marks an absent index link.
const NoNode = -1

// Node is one entry in a member's arena. Links are arena indices, so a
// member can be copied or shared without fixing up pointers.
type Node struct {
	Kind NodeKind

	Parent      int
	FirstChild  int
	LastChild   int
	NextSibling int

	// Token span (indices into the member's token slice), inclusive.
	// Both are -1 for nodes without tokens.
	FirstToken int
	LastToken  int

	// Indent is the width in bytes of the leading whitespace of the line.
	Indent int
}

// HasChildren reports whether the node has children.
func (n Node) HasChildren() bool {
	return n.FirstChild != NoNode
}

// Arena builds a node arena. The zero value is ready to use.
type Arena struct {
	nodes []Node
}

// Add appends an unlinked node and returns its index.
func (a *Arena) Add(kind NodeKind, firstToken, lastToken, indent int) int {
	a.nodes = append(a.nodes, Node{
		Kind:        kind,
		Parent:      NoNode,
		FirstChild:  NoNode,
		LastChild:   NoNode,
		NextSibling: NoNode,
		FirstToken:  firstToken,
		LastToken:   lastToken,
		Indent:      indent,
	})
	return len(a.nodes) - 1
}

// AppendChild links child as the last child of parent.
// The child must not already have a parent.
func (a *Arena) AppendChild(parent, child int) {
	if !a.valid(parent) || !a.valid(child) || parent == child {
		return
	}
	if a.nodes[child].Parent != NoNode {
		return
	}

	a.nodes[child].Parent = parent
	if last := a.nodes[parent].LastChild; last != NoNode {
		a.nodes[last].NextSibling = child
	} else {
		a.nodes[parent].FirstChild = child
	}
	a.nodes[parent].LastChild = child
}

// ExtendTo grows the token span of a node and all of its ancestors so that
// it ends at lastToken.
func (a *Arena) ExtendTo(index, lastToken int) {
	for idx := index; a.valid(idx); idx = a.nodes[idx].Parent {
		if a.nodes[idx].LastToken < lastToken {
			a.nodes[idx].LastToken = lastToken
		}
	}
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Nodes returns the built arena. The arena must not be used afterwards.
func (a *Arena) Nodes() []Node {
	nodes := a.nodes
	a.nodes = nil
	return nodes
}

func (a *Arena) valid(index int) bool {
	return index >= 0 && index < len(a.nodes)
}
