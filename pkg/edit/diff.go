package edit

import (
	"fmt"
	"strings"
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

// DiffLine represents a single line in a diff hunk.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffHunk represents a single hunk in a unified diff.
type DiffHunk struct {
	// OriginalStart and ModifiedStart are 1-based line numbers.
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int

	Lines []DiffLine
}

// Diff represents a unified diff between two texts.
type Diff struct {
	Path      string
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// GenerateDiff creates a unified diff between original and modified.
// Returns nil if there are no changes.
func GenerateDiff(path, original, modified string) *Diff {
	if original == modified {
		return nil
	}

	origLines := splitDiffLines(original)
	modLines := splitDiffLines(modified)

	ops := diffOps(origLines, modLines)
	hunks := groupHunks(ops)
	if len(hunks) == 0 {
		return nil
	}

	diff := &Diff{Path: path, Hunks: hunks}
	for _, op := range ops {
		switch op.Kind {
		case DiffLineAdd:
			diff.Additions++
		case DiffLineRemove:
			diff.Deletions++
		case DiffLineContext:
		}
	}
	return diff
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String returns the diff in unified format.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount,
			hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			builder.WriteString(linePrefix(line.Kind))
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}

	return builder.String()
}

func linePrefix(kind DiffLineKind) string {
	switch kind {
	case DiffLineAdd:
		return "+"
	case DiffLineRemove:
		return "-"
	default:
		return " "
	}
}

// splitDiffLines splits text into lines without terminators.
func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// diffOp is one step of the edit script.
type diffOp = DiffLine

// diffOps walks the LCS table to produce context/remove/add operations.
func diffOps(orig, mod []string) []diffOp {
	rows, cols := len(orig), len(mod)

	// lcs[i][j] is the LCS length of orig[i:] and mod[j:].
	lcs := make([][]int, rows+1)
	for idx := range lcs {
		lcs[idx] = make([]int, cols+1)
	}
	for row := rows - 1; row >= 0; row-- {
		for col := cols - 1; col >= 0; col-- {
			if orig[row] == mod[col] {
				lcs[row][col] = lcs[row+1][col+1] + 1
			} else {
				lcs[row][col] = max(lcs[row+1][col], lcs[row][col+1])
			}
		}
	}

	ops := make([]diffOp, 0, rows+cols)
	row, col := 0, 0
	for row < rows || col < cols {
		switch {
		case row < rows && col < cols && orig[row] == mod[col]:
			ops = append(ops, diffOp{Kind: DiffLineContext, Content: orig[row]})
			row++
			col++
		case col < cols && (row == rows || lcs[row][col+1] > lcs[row+1][col]):
			ops = append(ops, diffOp{Kind: DiffLineAdd, Content: mod[col]})
			col++
		default:
			ops = append(ops, diffOp{Kind: DiffLineRemove, Content: orig[row]})
			row++
		}
	}
	return ops
}

// groupHunks merges nearby changes into hunks with surrounding context.
func groupHunks(ops []diffOp) []DiffHunk {
	var hunks []DiffHunk

	idx := 0
	for idx < len(ops) {
		if ops[idx].Kind == DiffLineContext {
			idx++
			continue
		}

		start := max(idx-contextLines, 0)
		end := idx
		for end < len(ops) {
			if ops[end].Kind != DiffLineContext {
				end++
				continue
			}
			// Stop once the run of context lines is long enough to split hunks.
			run := end
			for run < len(ops) && ops[run].Kind == DiffLineContext {
				run++
			}
			if run == len(ops) || run-end > contextLines*2 {
				break
			}
			end = run
		}
		stop := min(end+contextLines, len(ops))

		hunks = append(hunks, buildHunk(ops, start, stop))
		idx = stop
	}

	return hunks
}

func buildHunk(ops []diffOp, start, stop int) DiffHunk {
	hunk := DiffHunk{OriginalStart: 1, ModifiedStart: 1}
	for _, op := range ops[:start] {
		if op.Kind != DiffLineAdd {
			hunk.OriginalStart++
		}
		if op.Kind != DiffLineRemove {
			hunk.ModifiedStart++
		}
	}

	for _, op := range ops[start:stop] {
		hunk.Lines = append(hunk.Lines, op)
		switch op.Kind {
		case DiffLineContext:
			hunk.OriginalCount++
			hunk.ModifiedCount++
		case DiffLineRemove:
			hunk.OriginalCount++
		case DiffLineAdd:
			hunk.ModifiedCount++
		}
	}
	return hunk
}
