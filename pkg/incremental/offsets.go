package incremental

import (
	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
)

// MemberOffset is the position of one member in the text the tree was
// parsed from.
type MemberOffset struct {
	Index        int
	Start        int
	End          int
	OriginLength int
}

// Span returns the member's region as a span.
func (m MemberOffset) Span() edit.TextSpan {
	return edit.TextSpan{Start: m.Start, Length: m.OriginLength}
}

// OffsetTable lists member positions in source order. Entries are
// contiguous and the first starts at the prefix length.
type OffsetTable []MemberOffset

// BuildOffsetTable computes member positions from origin lengths, so the
// table describes the old text even if members would render differently.
func BuildOffsetTable(tree *gdast.Tree) OffsetTable {
	if tree == nil || len(tree.Members) == 0 {
		return nil
	}

	table := make(OffsetTable, len(tree.Members))
	offset := tree.PrefixLength()
	for idx, member := range tree.Members {
		length := member.OriginLength()
		table[idx] = MemberOffset{
			Index:        idx,
			Start:        offset,
			End:          offset + length,
			OriginLength: length,
		}
		offset += length
	}

	return table
}

// End returns the end of the last member, or 0 for an empty table.
func (t OffsetTable) End() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End
}
