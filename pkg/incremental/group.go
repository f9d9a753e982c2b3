package incremental

import (
	"sort"

	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
)

// ChangeGroup collects the edits that land inside one member.
type ChangeGroup struct {
	// Index is the member index in the old tree.
	Index int

	// Original is the member's region in the old text.
	Original edit.TextSpan

	// Changes are the edits inside the member, in ascending order.
	Changes []edit.TextChange
}

// GroupChanges assigns each edit to the member containing it. It returns
// groups ordered by member index, or a non-empty Reason when some edit
// cannot be confined to one ordinary member. changes must be sorted.
func GroupChanges(changes []edit.TextChange, table OffsetTable, tree *gdast.Tree) ([]ChangeGroup, Reason) {
	byIndex := make(map[int]*ChangeGroup)

	for _, change := range changes {
		index := Locate(table, change.Start)
		if index == ClassLevel {
			return nil, ReasonClassLevelEdit
		}
		if tree.Members[index].IsAttribute() {
			return nil, ReasonAttributeEdit
		}

		entry := table[index]
		if change.OldEnd() > entry.End {
			if Locate(table, change.OldEnd()-1) != index {
				return nil, ReasonCrossMemberEdit
			}
		}

		group, ok := byIndex[index]
		if !ok {
			group = &ChangeGroup{Index: index, Original: entry.Span()}
			byIndex[index] = group
		}
		group.Changes = append(group.Changes, change)
	}

	groups := make([]ChangeGroup, 0, len(byIndex))
	for _, group := range byIndex {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Index < groups[j].Index
	})

	return groups, ReasonNone
}

// AdjustedSpan maps the group's member region into new-text coordinates.
// Edits wholly before the member shift it; edits inside it stretch or shrink
// its end; edits after it have no effect. changes is the whole sorted batch.
func (g ChangeGroup) AdjustedSpan(changes []edit.TextChange) edit.TextSpan {
	before := 0
	for _, change := range changes {
		if change.OldEnd() > g.Original.Start {
			break
		}
		before += change.Delta()
	}

	inside := edit.TotalDelta(g.Changes)

	start := g.Original.Start + before
	end := g.Original.End() + before + inside
	return edit.TextSpan{Start: start, Length: end - start}
}

// Minimum share of the original length an adjusted span must keep when the
// member is longer than shrinkCheckMin bytes.
const (
	shrinkCheckMin = 10
	shrinkDivisor  = 5
)

// plausibleSpan rejects adjusted spans that are empty, out of bounds, or
// shrunk so far that the boundary arithmetic is probably wrong.
func plausibleSpan(adjusted, original edit.TextSpan, textLen int) bool {
	if adjusted.Length <= 0 || adjusted.Start < 0 || adjusted.End() > textLen {
		return false
	}
	if original.Length > shrinkCheckMin && adjusted.Length*shrinkDivisor < original.Length {
		return false
	}
	return true
}
