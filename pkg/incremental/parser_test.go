package incremental_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdast"
	"github.com/yaklabco/gdparse/pkg/gdparser"
	"github.com/yaklabco/gdparse/pkg/incremental"
)

func newEngine(t *testing.T, opts incremental.Options) *incremental.Parser {
	t.Helper()

	engine, err := incremental.NewParser(gdparser.New(gdparser.Options{}), opts)
	require.NoError(t, err)
	return engine
}

// reparse applies changes to oldText, runs the engine and checks that the
// result renders the new text.
func reparse(
	t *testing.T,
	engine *incremental.Parser,
	oldText string,
	changes ...edit.TextChange,
) (*gdast.Tree, string, *incremental.Result) {
	t.Helper()

	oldTree := mustParse(t, oldText)
	newText, err := edit.ApplyChanges(oldText, changes)
	require.NoError(t, err)

	result, err := engine.ParseIncremental(context.Background(), oldTree, newText, changes)
	require.NoError(t, err)
	assert.Equal(t, newText, result.Tree.Render())

	return oldTree, newText, result
}

func TestParseIncrementalSingleMemberEdit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		oldText string
		change  edit.TextChange
		want    string
	}{
		{
			name:    "lf",
			oldText: twoFuncs,
			change:  edit.Replace(11, 15, "return 1"),
			want:    "func a():\n\treturn 1\n",
		},
		{
			name:    "crlf",
			oldText: "func a():\r\n\tpass\r\nfunc b():\r\n\tpass\r\n",
			change:  edit.Replace(12, 16, "return 1"),
			want:    "func a():\r\n\treturn 1\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := newEngine(t, incremental.DefaultOptions())
			oldTree, _, result := reparse(t, engine, tt.oldText, tt.change)

			require.Equal(t, incremental.ResultIncremental, result.Kind)
			assert.Equal(t, incremental.ReasonNone, result.Reason)
			require.Len(t, result.MemberChanges, 1)

			change := result.MemberChanges[0]
			assert.Equal(t, 0, change.Index)
			assert.Same(t, oldTree.Members[0], change.Old)
			assert.Same(t, result.Tree.Members[0], change.New)
			assert.Equal(t, tt.want, change.New.Render())
			assert.Equal(t, len(tt.want), change.New.OriginLength())

			assert.Same(t, oldTree.Members[1], result.Tree.Members[1], "untouched member must be reused")
			assert.Equal(t, tt.oldText, oldTree.Render(), "old tree must not be mutated")
		})
	}
}

func TestParseIncrementalChangedRanges(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, incremental.DefaultOptions())
	oldTree, newText, result := reparse(t, engine, twoFuncs, edit.Replace(11, 15, "return 1"))

	ranges := incremental.ChangedRanges(oldTree, result.Tree)
	require.Len(t, ranges, 1)
	assert.Equal(t, result.Tree.Members[0].Render(), ranges[0].Text(newText))
}

func TestParseIncrementalNoChanges(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, incremental.DefaultOptions())
	oldTree := mustParse(t, twoFuncs)

	result, err := engine.ParseIncremental(context.Background(), oldTree, twoFuncs, nil)
	require.NoError(t, err)
	assert.Equal(t, incremental.ResultNoChanges, result.Kind)
	assert.Same(t, oldTree, result.Tree)
	assert.Empty(t, result.MemberChanges)
}

func TestParseIncrementalNoPreviousTree(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, incremental.DefaultOptions())

	result, err := engine.ParseIncremental(context.Background(), nil, twoFuncs, []edit.TextChange{edit.Insert(0, "x")})
	require.NoError(t, err)
	assert.Equal(t, incremental.ResultFullReparse, result.Kind)
	assert.Equal(t, incremental.ReasonNoPreviousTree, result.Reason)
	assert.Equal(t, twoFuncs, result.Tree.Render())
}

func TestParseIncrementalFallbacks(t *testing.T) {
	t.Parallel()

	fourFuncs := "func a():\n\tpass\nfunc b():\n\tpass\nfunc c():\n\tpass\nfunc d():\n\tpass\n"

	tests := []struct {
		name    string
		oldText string
		changes []edit.TextChange
		reason  incremental.Reason
	}{
		{
			name:    "edit at member start",
			oldText: twoFuncs,
			changes: []edit.TextChange{edit.Insert(16, "# note\n")},
			reason:  incremental.ReasonClassLevelEdit,
		},
		{
			name:    "edit spans two members",
			oldText: twoFuncs,
			changes: []edit.TextChange{edit.Replace(13, 20, "ss\nfunc")},
			reason:  incremental.ReasonCrossMemberEdit,
		},
		{
			name:    "extends clause",
			oldText: "extends Node\n" + twoFuncs,
			changes: []edit.TextChange{edit.Replace(8, 12, "Node2D")},
			reason:  incremental.ReasonAttributeEdit,
		},
		{
			name:    "header comment",
			oldText: "# header\nextends Node\n" + twoFuncs,
			changes: []edit.TextChange{edit.Replace(2, 8, "title")},
			reason:  incremental.ReasonClassLevelEdit,
		},
		{
			name:    "too many members",
			oldText: fourFuncs,
			changes: []edit.TextChange{
				edit.Replace(11, 15, "return"),
				edit.Replace(27, 31, "return"),
				edit.Replace(43, 47, "return"),
				edit.Replace(59, 63, "return"),
			},
			reason: incremental.ReasonTooManyMembers,
		},
		{
			name:    "member reparse leaves string open",
			oldText: "var a = 1 # \"\"\"\nvar b = 2 # \"\"\"\n",
			changes: []edit.TextChange{edit.Delete(10, 12)},
			reason:  incremental.ReasonMemberReparseFailed,
		},
		{
			name:    "edit splits a member in two",
			oldText: twoFuncs,
			changes: []edit.TextChange{edit.Insert(15, "\nvar z = 1")},
			reason:  incremental.ReasonMemberReparseFailed,
		},
		{
			name:    "edit ends member with a continuation",
			oldText: twoFuncs,
			changes: []edit.TextChange{edit.Insert(15, " \\")},
			reason:  incremental.ReasonMemberReparseFailed,
		},
		{
			name:    "large edit",
			oldText: twoFuncs,
			changes: []edit.TextChange{edit.Replace(11, 15, strings.Repeat("x", 20))},
			reason:  incremental.ReasonThreshold,
		},
		{
			name:    "no members",
			oldText: "# just a comment\n",
			changes: []edit.TextChange{edit.Insert(2, "x")},
			reason:  incremental.ReasonNoMembers,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			engine := newEngine(t, incremental.DefaultOptions())
			_, _, result := reparse(t, engine, testCase.oldText, testCase.changes...)

			assert.Equal(t, incremental.ResultFullReparse, result.Kind)
			assert.Equal(t, testCase.reason, result.Reason)
			assert.Empty(t, result.MemberChanges)
		})
	}
}

func TestParseIncrementalFallbackTreeMatchesFullParse(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, incremental.DefaultOptions())
	oldText := "var a = 1 # \"\"\"\nvar b = 2 # \"\"\"\n"
	_, newText, result := reparse(t, engine, oldText, edit.Delete(10, 12))

	require.Equal(t, incremental.ResultFullReparse, result.Kind)
	require.Len(t, result.Tree.Members, 1, "the string now swallows the second declaration")
	assert.Equal(t, newText, result.Tree.Members[0].Render())
}

func TestParseIncrementalMultipleMembers(t *testing.T) {
	t.Parallel()

	threeFuncs := twoFuncs + "func c():\n\tpass\n"

	tests := []struct {
		name    string
		oldText string
		changes []edit.TextChange
		newline string
	}{
		{
			name:    "lf",
			oldText: threeFuncs,
			changes: []edit.TextChange{edit.Delete(43, 47), edit.Replace(11, 15, "return 1")},
			newline: "\n",
		},
		{
			name:    "crlf",
			oldText: strings.ReplaceAll(threeFuncs, "\n", "\r\n"),
			changes: []edit.TextChange{edit.Delete(48, 52), edit.Replace(12, 16, "return 1")},
			newline: "\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			nl := tt.newline
			engine := newEngine(t, incremental.DefaultOptions())
			oldTree, newText, result := reparse(t, engine, tt.oldText, tt.changes...)

			require.Equal(t, incremental.ResultIncremental, result.Kind)
			require.Len(t, result.MemberChanges, 2)
			assert.Equal(t, 0, result.MemberChanges[0].Index)
			assert.Equal(t, 2, result.MemberChanges[1].Index)
			assert.Equal(t, "func c():"+nl+"\t"+nl, result.Tree.Members[2].Render())
			assert.Same(t, oldTree.Members[1], result.Tree.Members[1])

			ranges := incremental.ChangedRanges(oldTree, result.Tree)
			require.Len(t, ranges, 2)
			assert.Equal(t, "func a():"+nl+"\treturn 1"+nl, ranges[0].Text(newText))
			assert.Equal(t, "func c():"+nl+"\t"+nl, ranges[1].Text(newText))
		})
	}
}

func TestParseIncrementalThresholdMonotonic(t *testing.T) {
	t.Parallel()

	// Volume 12 over 32 original bytes: ratio 0.375.
	change := edit.Replace(11, 15, "return 12345")

	strict := newEngine(t, incremental.Options{FullReparseThreshold: 0.3, MaxAffectedMembers: 3})
	_, _, result := reparse(t, strict, twoFuncs, change)
	assert.Equal(t, incremental.ResultFullReparse, result.Kind)
	assert.Equal(t, incremental.ReasonThreshold, result.Reason)

	lenient := newEngine(t, incremental.Options{FullReparseThreshold: 0.5, MaxAffectedMembers: 3})
	_, _, result = reparse(t, lenient, twoFuncs, change)
	assert.Equal(t, incremental.ResultIncremental, result.Kind)
}

func TestParseIncrementalMaxAffectedMembers(t *testing.T) {
	t.Parallel()

	fourFuncs := "func a():\n\tpass\nfunc b():\n\tpass\nfunc c():\n\tpass\nfunc d():\n\tpass\n"
	changes := []edit.TextChange{
		edit.Insert(12, "a"),
		edit.Insert(28, "a"),
		edit.Insert(44, "a"),
		edit.Insert(60, "a"),
	}

	engine := newEngine(t, incremental.DefaultOptions())
	_, _, result := reparse(t, engine, fourFuncs, changes...)
	assert.Equal(t, incremental.ReasonTooManyMembers, result.Reason)

	require.NoError(t, engine.SetOptions(incremental.Options{FullReparseThreshold: 0.5, MaxAffectedMembers: 4}))
	_, _, result = reparse(t, engine, fourFuncs, changes...)
	assert.Equal(t, incremental.ResultIncremental, result.Kind)
	assert.Len(t, result.MemberChanges, 4)
}

func TestParseIncrementalLengthMismatch(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, incremental.DefaultOptions())
	oldTree := mustParse(t, "var a\n")

	result, err := engine.ParseIncremental(context.Background(), oldTree, "var abc\n", []edit.TextChange{edit.Insert(4, "b")})
	require.NoError(t, err)
	assert.Equal(t, incremental.ReasonLengthMismatch, result.Reason)
	assert.Equal(t, "var abc\n", result.Tree.Render())
}

func TestParseIncrementalErrors(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, incremental.DefaultOptions())
	oldTree := mustParse(t, twoFuncs)

	t.Run("negative start", func(t *testing.T) {
		t.Parallel()

		_, err := engine.ParseIncremental(context.Background(), oldTree, twoFuncs,
			[]edit.TextChange{{Start: -1, OldLength: 0, NewText: ""}})
		require.ErrorIs(t, err, edit.ErrInvalidChange)
	})

	t.Run("overlapping changes", func(t *testing.T) {
		t.Parallel()

		_, err := engine.ParseIncremental(context.Background(), oldTree, twoFuncs,
			[]edit.TextChange{edit.Replace(11, 14, "pas"), edit.Replace(12, 15, "ass")})
		var overlap *edit.OverlapError
		require.ErrorAs(t, err, &overlap)
	})

	t.Run("full reparse failure propagates", func(t *testing.T) {
		t.Parallel()

		newText, err := edit.ApplyChanges(twoFuncs, []edit.TextChange{edit.Insert(11, "(")})
		require.NoError(t, err)

		_, err = engine.ParseIncremental(context.Background(), oldTree, newText, []edit.TextChange{edit.Insert(11, "(")})
		require.ErrorIs(t, err, gdparser.ErrUnclosedBracket)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		newText := "func a():\n\treturn 1\nfunc b():\n\tpass\n"
		_, err := engine.ParseIncremental(ctx, oldTree, newText, []edit.TextChange{edit.Replace(11, 15, "return 1")})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewParserValidatesOptions(t *testing.T) {
	t.Parallel()

	parser := gdparser.New(gdparser.Options{})

	_, err := incremental.NewParser(parser, incremental.Options{FullReparseThreshold: 1.5, MaxAffectedMembers: 3})
	require.ErrorIs(t, err, incremental.ErrInvalidOptions)

	_, err = incremental.NewParser(parser, incremental.Options{FullReparseThreshold: 0.5, MaxAffectedMembers: 0})
	require.ErrorIs(t, err, incremental.ErrInvalidOptions)

	engine := newEngine(t, incremental.DefaultOptions())
	require.ErrorIs(t, engine.SetOptions(incremental.Options{FullReparseThreshold: -1, MaxAffectedMembers: 1}), incremental.ErrInvalidOptions)
	assert.Equal(t, incremental.DefaultOptions(), engine.Options())
}
