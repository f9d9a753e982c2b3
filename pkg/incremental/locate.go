package incremental

import "sort"

// ClassLevel is the member index reported for offsets that belong to no
// single member: the prefix, the end of the text and member boundaries.
const ClassLevel = -1

// Locate returns the index of the member containing offset, or ClassLevel.
// An offset exactly at a member's start is ambiguous (it is also the end of
// the previous member) and resolves to ClassLevel.
func Locate(table OffsetTable, offset int) int {
	idx := sort.Search(len(table), func(i int) bool {
		return table[i].End > offset
	})
	if idx >= len(table) {
		return ClassLevel
	}

	entry := table[idx]
	if offset <= entry.Start {
		return ClassLevel
	}
	return entry.Index
}
