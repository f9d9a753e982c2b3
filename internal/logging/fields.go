// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Incremental parse fields.
	FieldResult         = "result"
	FieldReason         = "reason"
	FieldMember         = "member"
	FieldMembers        = "members"
	FieldEdits          = "edits"
	FieldRatio          = "ratio"
	FieldThreshold      = "threshold"
	FieldOffset         = "offset"
	FieldSpanStart      = "span_start"
	FieldSpanEnd        = "span_end"
	FieldDocVersion     = "doc_version"
	FieldGranularity    = "granularity"
	FieldMaxAffected    = "max_affected_members"
	FieldAffected       = "affected_members"
	FieldOriginLength   = "origin_length"
	FieldExpectedLength = "expected_length"

	// Runner fields.
	FieldJobs            = "jobs"
	FieldFilesDiscovered = "files_discovered"
	FieldFilesParsed     = "files_parsed"
	FieldFilesFailed     = "files_failed"
	FieldEvent           = "event"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
