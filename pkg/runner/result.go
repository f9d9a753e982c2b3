package runner

import "github.com/yaklabco/gdparse/pkg/gdast"

// FileOutcome is the parse outcome for one file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Tree is the parsed tree. Nil if the file could not be parsed.
	Tree *gdast.Tree

	// Bytes is the file size.
	Bytes int

	// RoundTrip is true when rendering the tree reproduced the file exactly.
	RoundTrip bool

	// Error is set if the file could not be read or parsed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesParsed is the number of files that parsed.
	FilesParsed int

	// FilesFailed is the number of files that could not be read or parsed.
	FilesFailed int

	// RoundTripFailures counts parsed files whose rendering differed.
	RoundTripFailures int

	// Members is the total number of top-level members.
	Members int

	// Bytes is the total size of all parsed files.
	Bytes int

	// MembersByKind maps member kind names to counts.
	MembersByKind map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed to parse or round-trip.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0 || r.Stats.RoundTripFailures > 0
}

func newStats() Stats {
	return Stats{
		MembersByKind: make(map[string]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil || outcome.Tree == nil {
		r.Stats.FilesFailed++
		return
	}

	r.Stats.FilesParsed++
	r.Stats.Bytes += outcome.Bytes
	if !outcome.RoundTrip {
		r.Stats.RoundTripFailures++
	}

	r.Stats.Members += len(outcome.Tree.Members)
	for _, member := range outcome.Tree.Members {
		r.Stats.MembersByKind[member.Kind().String()]++
	}
}
