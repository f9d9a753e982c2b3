package reporter

import "github.com/yaklabco/gdparse/pkg/gdast"

// outlineEntry describes one member at its position in a tree.
type outlineEntry struct {
	Index       int
	Kind        string
	Name        string
	Detail      string
	Static      bool
	Annotations []string
	Line        int
	Start       int
	Length      int
}

// outline lists the members of tree with 1-based start lines.
func outline(tree *gdast.Tree) []outlineEntry {
	if tree == nil || len(tree.Members) == 0 {
		return nil
	}

	lines := gdast.BuildLines(tree.Render())
	entries := make([]outlineEntry, 0, len(tree.Members))
	offset := tree.PrefixLength()
	for idx, member := range tree.Members {
		line, _ := lines.LineAt(offset)
		entries = append(entries, outlineEntry{
			Index:       idx,
			Kind:        member.Kind().String(),
			Name:        member.Name(),
			Detail:      member.Detail(),
			Static:      member.Static(),
			Annotations: member.Annotations(),
			Line:        line,
			Start:       offset,
			Length:      member.OriginLength(),
		})
		offset += member.OriginLength()
	}
	return entries
}
