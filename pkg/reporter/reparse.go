package reporter

import (
	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
	"github.com/yaklabco/gdparse/pkg/incremental"
)

// ReparseReport describes one incremental parse of a file.
type ReparseReport struct {
	Path    string
	Changes []edit.TextChange

	Kind   incremental.ResultKind
	Reason incremental.Reason

	// Members lists the members spliced by an incremental result.
	Members []MemberReport

	// ChangedRanges are the regions of the new text whose members differ
	// from the old tree.
	ChangedRanges []edit.TextSpan

	// Diff is the whole-file diff for a full reparse, when requested.
	Diff *edit.Diff

	// Verified is set when the incremental tree was compared against a full
	// parse of the new text.
	Verified *bool
}

// MemberReport describes one spliced member.
type MemberReport struct {
	Index   int
	Kind    string
	Name    string
	OldName string

	// Diff is the member's old-to-new diff, when requested.
	Diff *edit.Diff
}

// NewReparseReport builds a report for result, which ParseIncremental
// produced from oldTree and changes. With withDiff set, every spliced member
// carries a unified diff; a full reparse carries one for the whole file.
func NewReparseReport(
	path string,
	oldTree *gdast.Tree,
	changes []edit.TextChange,
	result *incremental.Result,
	withDiff bool,
) *ReparseReport {
	report := &ReparseReport{
		Path:    path,
		Changes: changes,
		Kind:    result.Kind,
		Reason:  result.Reason,
	}
	if result.Kind != incremental.ResultNoChanges {
		report.ChangedRanges = incremental.ChangedRanges(oldTree, result.Tree)
	}

	for _, change := range result.MemberChanges {
		entry := MemberReport{
			Index:   change.Index,
			Kind:    change.New.Kind().String(),
			Name:    change.New.Name(),
			OldName: change.Old.Name(),
		}
		if withDiff {
			entry.Diff = edit.GenerateDiff(path, change.Old.Render(), change.New.Render())
		}
		report.Members = append(report.Members, entry)
	}

	if withDiff && result.Kind == incremental.ResultFullReparse {
		report.Diff = edit.GenerateDiff(path, oldTree.Render(), result.Tree.Render())
	}

	return report
}

// SetVerified records the outcome of a comparison with a full parse.
func (r *ReparseReport) SetVerified(ok bool) {
	r.Verified = &ok
}
