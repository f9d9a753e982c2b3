package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gdparse/pkg/runner"
)

// JSONOutput is the top-level JSON structure for a parse run.
type JSONOutput struct {
	Version string      `json:"version"`
	Files   []JSONFile  `json:"files"`
	Summary JSONSummary `json:"summary"`
}

// JSONFile represents a single file's outcome.
type JSONFile struct {
	Path      string       `json:"path"`
	Bytes     int          `json:"bytes"`
	RoundTrip bool         `json:"roundTrip"`
	Members   []JSONMember `json:"members"`
	Error     string       `json:"error,omitempty"`
}

// JSONMember is one entry of a file outline.
type JSONMember struct {
	Index       int      `json:"index"`
	Kind        string   `json:"kind"`
	Name        string   `json:"name,omitempty"`
	Detail      string   `json:"detail,omitempty"`
	Static      bool     `json:"static,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
	Line        int      `json:"line"`
	Start       int      `json:"start"`
	Length      int      `json:"length"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered   int            `json:"filesDiscovered"`
	FilesParsed       int            `json:"filesParsed"`
	FilesFailed       int            `json:"filesFailed"`
	RoundTripFailures int            `json:"roundTripFailures"`
	Members           int            `json:"members"`
	Bytes             int            `json:"bytes"`
	MembersByKind     map[string]int `json:"membersByKind"`
}

// JSONReparse is the JSON structure for a reparse report.
type JSONReparse struct {
	Version       string             `json:"version"`
	Path          string             `json:"path"`
	Result        string             `json:"result"`
	Reason        string             `json:"reason,omitempty"`
	Changes       []JSONChange       `json:"changes"`
	MemberChanges []JSONMemberChange `json:"memberChanges"`
	ChangedRanges []JSONSpan         `json:"changedRanges"`
	Diff          string             `json:"diff,omitempty"`
	Verified      *bool              `json:"verified,omitempty"`
}

// JSONChange is one text edit.
type JSONChange struct {
	Start     int    `json:"start"`
	OldLength int    `json:"oldLength"`
	NewText   string `json:"newText"`
}

// JSONMemberChange is one spliced member.
type JSONMemberChange struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Name    string `json:"name,omitempty"`
	OldName string `json:"oldName,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

// JSONSpan is a byte range.
type JSONSpan struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)
	if err := r.encode(output); err != nil {
		return 0, err
	}

	return output.Summary.FilesFailed + output.Summary.RoundTripFailures, nil
}

// ReportReparse implements Reporter.
func (r *JSONReporter) ReportReparse(_ context.Context, report *ReparseReport) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if report == nil {
		return nil
	}
	return r.encode(r.buildReparse(report))
}

func (r *JSONReporter) encode(value any) error {
	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFile, 0),
		Summary: JSONSummary{MembersByKind: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFile, 0, len(result.Files))
	for _, file := range result.Files {
		entry := JSONFile{
			Path:      displayPath(r.opts.WorkingDir, file.Path),
			Bytes:     file.Bytes,
			RoundTrip: file.RoundTrip,
			Members:   make([]JSONMember, 0),
		}
		if file.Error != nil {
			entry.Error = file.Error.Error()
		}
		for _, member := range outline(file.Tree) {
			entry.Members = append(entry.Members, JSONMember(member))
		}
		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary.FilesDiscovered = stats.FilesDiscovered
	output.Summary.FilesParsed = stats.FilesParsed
	output.Summary.FilesFailed = stats.FilesFailed
	output.Summary.RoundTripFailures = stats.RoundTripFailures
	output.Summary.Members = stats.Members
	output.Summary.Bytes = stats.Bytes
	for kind, count := range stats.MembersByKind {
		output.Summary.MembersByKind[kind] = count
	}

	return output
}

func (r *JSONReporter) buildReparse(report *ReparseReport) *JSONReparse {
	output := &JSONReparse{
		Version:       jsonSchemaVersion,
		Path:          displayPath(r.opts.WorkingDir, report.Path),
		Result:        report.Kind.String(),
		Reason:        string(report.Reason),
		Changes:       make([]JSONChange, 0, len(report.Changes)),
		MemberChanges: make([]JSONMemberChange, 0, len(report.Members)),
		ChangedRanges: make([]JSONSpan, 0, len(report.ChangedRanges)),
		Verified:      report.Verified,
	}

	for _, change := range report.Changes {
		output.Changes = append(output.Changes, JSONChange{
			Start:     change.Start,
			OldLength: change.OldLength,
			NewText:   change.NewText,
		})
	}
	for _, member := range report.Members {
		output.MemberChanges = append(output.MemberChanges, JSONMemberChange{
			Index:   member.Index,
			Kind:    member.Kind,
			Name:    member.Name,
			OldName: member.OldName,
			Diff:    member.Diff.String(),
		})
	}
	for _, span := range report.ChangedRanges {
		output.ChangedRanges = append(output.ChangedRanges, JSONSpan{Start: span.Start, Length: span.Length})
	}
	output.Diff = report.Diff.String()

	return output
}
