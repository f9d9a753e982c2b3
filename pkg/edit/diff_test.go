package edit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdparse/pkg/edit"
)

func TestGenerateDiffNoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, edit.GenerateDiff("a.gd", "x\n", "x\n"))
	assert.False(t, (*edit.Diff)(nil).HasChanges())
	assert.Empty(t, (*edit.Diff)(nil).String())
}

func TestGenerateDiffSingleLine(t *testing.T) {
	t.Parallel()

	diff := edit.GenerateDiff("player.gd", "func a():\n\tpass\n", "func a():\n\treturn 1\n")
	require.NotNil(t, diff)

	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)
	require.Len(t, diff.Hunks, 1)

	want := "--- a/player.gd\n" +
		"+++ b/player.gd\n" +
		"@@ -1,2 +1,2 @@\n" +
		" func a():\n" +
		"-\tpass\n" +
		"+\treturn 1\n"
	assert.Equal(t, want, diff.String())
}

func TestGenerateDiffSplitsDistantHunks(t *testing.T) {
	t.Parallel()

	original := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\n"
	modified := "A\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nL\n"

	diff := edit.GenerateDiff("x.gd", original, modified)
	require.NotNil(t, diff)
	require.Len(t, diff.Hunks, 2)

	assert.Equal(t, 1, diff.Hunks[0].OriginalStart)
	assert.Equal(t, 4, diff.Hunks[0].OriginalCount)
	assert.Equal(t, 9, diff.Hunks[1].OriginalStart)
	assert.Equal(t, 4, diff.Hunks[1].OriginalCount)
}
