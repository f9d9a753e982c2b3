package incremental

import "github.com/yaklabco/gdparse/pkg/gdast"

// ResultKind tells how a tree was produced.
type ResultKind uint8

// Result kinds.
const (
	// ResultFullReparse means the whole new text was parsed.
	ResultFullReparse ResultKind = iota

	// ResultIncremental means unaffected members were reused and only the
	// members listed in MemberChanges were reparsed.
	ResultIncremental

	// ResultNoChanges means no edits were supplied and the old tree is
	// returned as is.
	ResultNoChanges
)

func (k ResultKind) String() string {
	switch k {
	case ResultFullReparse:
		return "full"
	case ResultIncremental:
		return "incremental"
	case ResultNoChanges:
		return "none"
	default:
		return "unknown"
	}
}

// Reason explains why a call ended in a full reparse.
type Reason string

// Full reparse reasons.
const (
	ReasonNone                Reason = ""
	ReasonNoPreviousTree      Reason = "no_previous_tree"
	ReasonThreshold           Reason = "threshold"
	ReasonNoMembers           Reason = "no_members"
	ReasonClassLevelEdit      Reason = "class_level_edit"
	ReasonAttributeEdit       Reason = "attribute_edit"
	ReasonCrossMemberEdit     Reason = "cross_member_edit"
	ReasonTooManyMembers      Reason = "too_many_members"
	ReasonBadSpan             Reason = "bad_span"
	ReasonMemberReparseFailed Reason = "member_reparse_failed"
	ReasonLengthMismatch      Reason = "length_mismatch"
)

// MemberChange records one spliced member.
type MemberChange struct {
	Index int
	Old   *gdast.Member
	New   *gdast.Member
}

// Result is the outcome of ParseIncremental. The tree is owned by the
// result; for ResultNoChanges it is the caller's old tree.
type Result struct {
	Kind          ResultKind
	Tree          *gdast.Tree
	MemberChanges []MemberChange

	// Reason is set for ResultFullReparse.
	Reason Reason
}

func fullResult(tree *gdast.Tree, reason Reason) *Result {
	return &Result{Kind: ResultFullReparse, Tree: tree, Reason: reason}
}
