package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/gdparse/internal/ui/pretty"
	"github.com/yaklabco/gdparse/pkg/edit"
)

// writeDiff outputs one diff under a header line, colouring each line.
func writeDiff(out io.Writer, styles *pretty.Styles, header string, diff *edit.Diff) {
	fmt.Fprintln(out, styles.DiffHeader.Render(header))

	for _, line := range strings.Split(diff.String(), "\n") {
		if line == "" {
			continue
		}
		writeDiffLine(out, styles, line)
	}
}

// writeDiffLine formats a single diff line with color.
func writeDiffLine(out io.Writer, styles *pretty.Styles, line string) {
	var styled string

	switch {
	case strings.HasPrefix(line, "@@"):
		styled = styles.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+++"):
		styled = styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "---"):
		styled = styles.DiffRemove.Render(line)
	case strings.HasPrefix(line, "+"):
		styled = styles.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		styled = styles.DiffRemove.Render(line)
	default:
		styled = styles.DiffContext.Render(line)
	}

	fmt.Fprintln(out, styled)
}
