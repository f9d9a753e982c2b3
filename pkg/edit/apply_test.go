package edit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdparse/pkg/edit"
)

func TestApplyChanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		changes  []edit.TextChange
		want     string
	}{
		{
			name:     "no changes returns original",
			original: "hello world",
			want:     "hello world",
		},
		{
			name:     "multiple non-overlapping changes",
			original: "hello world",
			changes: []edit.TextChange{
				edit.Replace(0, 5, "hi"),
				edit.Replace(6, 11, "there"),
			},
			want: "hi there",
		},
		{
			name:     "unsorted input",
			original: "abcdef",
			changes: []edit.TextChange{
				edit.Replace(4, 6, "ZZ"),
				edit.Replace(0, 2, "XX"),
			},
			want: "XXcdZZ",
		},
		{
			name:     "adjacent changes",
			original: "abcdef",
			changes: []edit.TextChange{
				edit.Replace(0, 2, "XX"),
				edit.Replace(2, 4, "YY"),
				edit.Replace(4, 6, "ZZ"),
			},
			want: "XXYYZZ",
		},
		{
			name:     "insert and delete",
			original: "func a():\n\tpass\n",
			changes: []edit.TextChange{
				edit.Insert(0, "# top\n"),
				edit.Delete(10, 16),
			},
			want: "# top\nfunc a():\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := edit.ApplyChanges(testCase.original, testCase.changes)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestApplyChangesRejectsOverlap(t *testing.T) {
	t.Parallel()

	_, err := edit.ApplyChanges("abcdef", []edit.TextChange{
		edit.Delete(0, 4),
		edit.Delete(2, 5),
	})

	var overlap *edit.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, 0, overlap.First.Start)
	assert.Equal(t, 2, overlap.Second.Start)
}

func TestPrepareChanges(t *testing.T) {
	t.Parallel()

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		_, err := edit.PrepareChanges([]edit.TextChange{edit.Delete(2, 10)}, 5)
		require.ErrorIs(t, err, edit.ErrInvalidChange)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		t.Parallel()

		input := []edit.TextChange{edit.Insert(5, "b"), edit.Insert(1, "a")}
		sorted, err := edit.PrepareChanges(input, 10)
		require.NoError(t, err)
		assert.Equal(t, 5, input[0].Start)
		assert.Equal(t, 1, sorted[0].Start)
	})
}

func TestTotalDelta(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, edit.TotalDelta(nil))
	assert.Equal(t, 1, edit.TotalDelta([]edit.TextChange{
		edit.Insert(0, "abc"),
		edit.Delete(5, 7),
	}))
}
