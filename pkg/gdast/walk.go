package gdast

// WalkFunc is the callback for Walk. It receives the arena index and node.
// Return a non-nil error to stop the walk.
type WalkFunc func(index int, node Node) error

// Walk performs a pre-order traversal of a member's arena starting at the
// root. If walkFunc returns an error the walk stops and returns it.
func Walk(member *Member, walkFunc WalkFunc) error {
	if member == nil || len(member.nodes) == 0 {
		return nil
	}
	return walkNode(member.nodes, 0, walkFunc)
}

func walkNode(nodes []Node, index int, walkFunc WalkFunc) error {
	if err := walkFunc(index, nodes[index]); err != nil {
		return err
	}
	for child := nodes[index].FirstChild; child != NoNode; child = nodes[child].NextSibling {
		if err := walkNode(nodes, child, walkFunc); err != nil {
			return err
		}
	}
	return nil
}

// FindAll returns the indices of all nodes matching the predicate, in
// pre-order.
func FindAll(member *Member, predicate func(node Node) bool) []int {
	var result []int

	//nolint:errcheck,revive // the callback never returns an error
	Walk(member, func(index int, node Node) error {
		if predicate(node) {
			result = append(result, index)
		}
		return nil
	})

	return result
}

// FindByKind returns the indices of all nodes of the given kind.
func FindByKind(member *Member, kind NodeKind) []int {
	return FindAll(member, func(node Node) bool {
		return node.Kind == kind
	})
}

// Depth returns the number of ancestors of the node at index.
func Depth(member *Member, index int) int {
	depth := 0
	for node, ok := member.Node(index); ok && node.Parent != NoNode; node, ok = member.Node(node.Parent) {
		depth++
	}
	return depth
}
