package pretty

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/gdparse/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, singular, many string) string {
	if n == 1 {
		return singular
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files parsed, 42 members, 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No GDScript files found") + "\n"
	}

	parts := []string{
		fmt.Sprintf("%d %s parsed", stats.FilesParsed, plural(stats.FilesParsed, wordFile, wordFiles)),
		fmt.Sprintf("%d %s", stats.Members, plural(stats.Members, "member", "members")),
	}

	if stats.FilesFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	if stats.RoundTripFailures > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d round trip %s",
			stats.RoundTripFailures, plural(stats.RoundTripFailures, "mismatch", "mismatches"))))
	}

	line := strings.Join(parts, ", ")
	if stats.FilesFailed == 0 && stats.RoundTripFailures == 0 {
		line = s.Success.Render(line)
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block with a per-kind
// member breakdown.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files parsed:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesParsed)) + "\n")
	if stats.FilesFailed > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesFailed)) + "\n")
	}
	if stats.RoundTripFailures > 0 {
		builder.WriteString("  Round trip errors: " +
			s.Warning.Render(strconv.Itoa(stats.RoundTripFailures)) + "\n")
	}
	builder.WriteString("  Bytes:             " +
		s.SummaryValue.Render(strconv.Itoa(stats.Bytes)) + "\n")

	builder.WriteString("\n")
	builder.WriteString("  Members:           " +
		s.SummaryValue.Render(strconv.Itoa(stats.Members)) + "\n")

	kinds := make([]string, 0, len(stats.MembersByKind))
	for kind := range stats.MembersByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	width := 0
	for _, kind := range kinds {
		width = max(width, len(kind))
	}
	for _, kind := range kinds {
		fmt.Fprintf(&builder, "    %s %s\n",
			s.Kind.Render(fmt.Sprintf("%-*s", width, kind)),
			s.SummaryValue.Render(strconv.Itoa(stats.MembersByKind[kind])))
	}

	builder.WriteString("\n")
	if stats.FilesFailed > 0 || stats.RoundTripFailures > 0 {
		builder.WriteString(s.Failure.Render("Parse finished with failures"))
	} else {
		builder.WriteString(s.Success.Render("All files parsed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
