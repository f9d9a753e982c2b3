package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gdparse/internal/ui/pretty"
	"github.com/yaklabco/gdparse/pkg/incremental"
	"github.com/yaklabco/gdparse/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}))
		}
		return 0, nil
	}

	var failures int
	for _, file := range result.Files {
		path := r.styles.FilePath.Render(displayPath(r.opts.WorkingDir, file.Path))

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			failures++
			continue
		}

		status := r.styles.Success.Render("ok")
		if !file.RoundTrip {
			status = r.styles.Warning.Render("round trip mismatch")
			failures++
		}

		members := len(file.Tree.Members)
		fmt.Fprintf(r.bw, "%s %s %s\n", path,
			r.styles.Dim.Render(fmt.Sprintf("(%d %s, %d bytes)", members, plural(members, "member", "members"), file.Bytes)),
			status)

		if r.opts.ShowMembers {
			for _, entry := range outline(file.Tree) {
				r.writeOutlineEntry(entry)
			}
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failures, nil
}

// ReportReparse implements Reporter.
func (r *TextReporter) ReportReparse(_ context.Context, report *ReparseReport) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if report == nil {
		return nil
	}

	path := r.styles.FilePath.Render(displayPath(r.opts.WorkingDir, report.Path))
	edits := fmt.Sprintf("%d %s", len(report.Changes), plural(len(report.Changes), "edit", "edits"))

	switch report.Kind {
	case incremental.ResultNoChanges:
		fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Dim.Render("no changes"))
	case incremental.ResultIncremental:
		fmt.Fprintf(r.bw, "%s: %s %s\n", path,
			r.styles.Success.Render("incremental"),
			r.styles.Dim.Render(fmt.Sprintf("(%s, %d %s reparsed)",
				edits, len(report.Members), plural(len(report.Members), "member", "members"))))
	default:
		fmt.Fprintf(r.bw, "%s: %s %s %s\n", path,
			r.styles.Warning.Render("full reparse"),
			r.styles.Reason.Render(string(report.Reason)),
			r.styles.Dim.Render("("+edits+")"))
	}

	for _, member := range report.Members {
		name := member.Name
		if member.OldName != "" && member.OldName != member.Name {
			name = member.OldName + " -> " + member.Name
		}
		fmt.Fprintf(r.bw, "  %s %s %s\n",
			r.styles.Location.Render(fmt.Sprintf("[%d]", member.Index)),
			r.styles.Kind.Render(member.Kind),
			r.styles.Name.Render(name))
	}

	if len(report.ChangedRanges) > 0 {
		spans := make([]string, len(report.ChangedRanges))
		for i, span := range report.ChangedRanges {
			spans[i] = span.String()
		}
		fmt.Fprintf(r.bw, "  %s %s\n", r.styles.Dim.Render("changed"), strings.Join(spans, " "))
	}

	for _, member := range report.Members {
		if member.Diff.HasChanges() {
			writeDiff(r.bw, r.styles, fmt.Sprintf("%s [%d] %s", report.Path, member.Index, member.Name), member.Diff)
		}
	}
	if report.Diff.HasChanges() {
		writeDiff(r.bw, r.styles, report.Path, report.Diff)
	}

	if report.Verified != nil {
		if *report.Verified {
			fmt.Fprintf(r.bw, "  %s\n", r.styles.Success.Render("verified against full parse"))
		} else {
			fmt.Fprintf(r.bw, "  %s\n", r.styles.Failure.Render("differs from full parse"))
		}
	}

	return nil
}

func (r *TextReporter) writeOutlineEntry(entry outlineEntry) {
	var builder strings.Builder
	builder.WriteString("  ")
	builder.WriteString(r.styles.Location.Render(fmt.Sprintf("%4d", entry.Line)))
	builder.WriteString(" ")
	for _, annotation := range entry.Annotations {
		builder.WriteString(r.styles.Dim.Render("@" + annotation))
		builder.WriteString(" ")
	}
	if entry.Static {
		builder.WriteString(r.styles.Kind.Render("static"))
		builder.WriteString(" ")
	}
	builder.WriteString(r.styles.Kind.Render(entry.Kind))
	if entry.Name != "" {
		builder.WriteString(" ")
		builder.WriteString(r.styles.Name.Render(entry.Name))
	}
	if entry.Detail != "" {
		if entry.Name == "" || !strings.HasPrefix(entry.Detail, "(") {
			builder.WriteString(" ")
		}
		builder.WriteString(r.styles.Detail.Render(entry.Detail))
	}
	builder.WriteString("\n")
	fmt.Fprint(r.bw, builder.String())
}

func plural(n int, singular, many string) string {
	if n == 1 {
		return singular
	}
	return many
}
