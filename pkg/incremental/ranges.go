package incremental

import (
	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
)

// ChangedRanges returns the regions of newTree's text whose members differ
// from oldTree's member at the same index. Members only present in oldTree
// have no region in the new text and are not reported. Spans are in
// newTree's coordinates and ascending.
func ChangedRanges(oldTree, newTree *gdast.Tree) []edit.TextSpan {
	if newTree == nil {
		return nil
	}

	var oldMembers []*gdast.Member
	if oldTree != nil {
		oldMembers = oldTree.Members
	}

	var spans []edit.TextSpan
	offset := newTree.PrefixLength()
	for idx, member := range newTree.Members {
		length := member.OriginLength()
		if idx >= len(oldMembers) || memberChanged(oldMembers[idx], member) {
			spans = append(spans, edit.TextSpan{Start: offset, Length: length})
		}
		offset += length
	}

	return spans
}

func memberChanged(oldMember, newMember *gdast.Member) bool {
	if oldMember == newMember {
		return false
	}
	if oldMember.OriginLength() != newMember.OriginLength() {
		return true
	}
	if oldMember.Hash() != newMember.Hash() {
		return true
	}
	return oldMember.Render() != newMember.Render()
}
