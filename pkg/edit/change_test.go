package edit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdparse/pkg/edit"
)

func TestTextChangeDerived(t *testing.T) {
	t.Parallel()

	change := edit.TextChange{Start: 4, OldLength: 3, NewText: "hello"}

	assert.Equal(t, 7, change.OldEnd())
	assert.Equal(t, 5, change.NewLength())
	assert.Equal(t, 9, change.NewEnd())
	assert.Equal(t, 2, change.Delta())
	assert.Equal(t, edit.TextSpan{Start: 4, Length: 3}, change.Span())
}

func TestTextChangeClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		change      edit.TextChange
		insertion   bool
		deletion    bool
		replacement bool
		noop        bool
	}{
		{"insertion", edit.Insert(3, "x"), true, false, false, false},
		{"deletion", edit.Delete(3, 5), false, true, false, false},
		{"replacement", edit.Replace(3, 5, "yy"), false, false, true, false},
		{"no-op", edit.TextChange{Start: 3}, false, false, false, true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.insertion, testCase.change.IsInsertion())
			assert.Equal(t, testCase.deletion, testCase.change.IsDeletion())
			assert.Equal(t, testCase.replacement, testCase.change.IsReplacement())
			assert.Equal(t, testCase.noop, testCase.change.IsNoOp())
		})
	}
}

func TestTextChangeApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		change   edit.TextChange
		want     string
		wantErr  error
	}{
		{"replace middle", "hello world", edit.Replace(0, 5, "hi"), "hi world", nil},
		{"insert at end", "hello", edit.Insert(5, " world"), "hello world", nil},
		{"delete all", "hello", edit.Delete(0, 5), "", nil},
		{"insert into empty", "", edit.Insert(0, "x"), "x", nil},
		{"start past end", "abc", edit.Insert(4, "x"), "", edit.ErrOutOfRange},
		{"old end past end", "abc", edit.Delete(1, 5), "", edit.ErrOutOfRange},
		{"negative start", "abc", edit.TextChange{Start: -1}, "", edit.ErrInvalidChange},
		{"negative length", "abc", edit.TextChange{Start: 1, OldLength: -1}, "", edit.ErrInvalidChange},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := testCase.change.Apply(testCase.original)
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestTextChangeAdjustPosition(t *testing.T) {
	t.Parallel()

	// Replace [10, 15) with 2 bytes: delta -3.
	change := edit.Replace(10, 15, "ab")

	tests := []struct {
		pos  int
		want int
	}{
		{0, 0},
		{10, 10},
		{12, 12}, // inside removed region collapses to start+newLength
		{14, 12},
		{15, 12},
		{20, 17},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, change.AdjustPosition(testCase.pos), "pos %d", testCase.pos)
	}
}

func TestTextChangeAdjustSpan(t *testing.T) {
	t.Parallel()

	change := edit.Replace(10, 20, "xyz") // delta -7

	tests := []struct {
		name        string
		span        edit.TextSpan
		want        edit.TextSpan
		wantRemoved bool
	}{
		{"before", edit.NewSpan(0, 5), edit.NewSpan(0, 5), false},
		{"after", edit.NewSpan(25, 30), edit.NewSpan(18, 23), false},
		{"inside collapses", edit.NewSpan(12, 18), edit.NewSpan(10, 10), true},
		{"exactly removed region", edit.NewSpan(10, 20), edit.NewSpan(10, 10), true},
		{"straddles start", edit.NewSpan(5, 15), edit.NewSpan(5, 13), false},
		{"covers change", edit.NewSpan(5, 25), edit.NewSpan(5, 18), false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, removed := change.AdjustSpan(testCase.span)
			assert.Equal(t, testCase.want, got)
			assert.Equal(t, testCase.wantRemoved, removed)
		})
	}
}
