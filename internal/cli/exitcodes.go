package cli

import (
	"errors"

	"github.com/yaklabco/gdparse/internal/configloader"
	"github.com/yaklabco/gdparse/pkg/runner"
)

// Exit codes for gdparse.
const (
	// ExitSuccess indicates every file parsed and round-tripped.
	ExitSuccess = 0

	// ExitParseFailures indicates at least one file failed to parse or
	// render back to its source.
	ExitParseFailures = 1

	// ExitVerifyMismatch indicates an incremental result differed from a
	// full parse of the same text.
	ExitVerifyMismatch = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70
)

// Sentinel errors that carry an exit code but need no log line.
var (
	ErrParseFailures  = errors.New("some files failed to parse")
	ErrVerifyMismatch = errors.New("incremental result differs from full parse")
	ErrInvalidUsage   = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code of a parse run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitParseFailures
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrParseFailures):
		return ExitParseFailures
	case errors.Is(err, ErrVerifyMismatch):
		return ExitVerifyMismatch
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, errConfig), errors.As(err, &validation):
		return ExitConfigError
	default:
		return ExitInternalError
	}
}

// Silent reports whether err only signals an exit code and should not be
// logged.
func Silent(err error) bool {
	return errors.Is(err, ErrParseFailures) || errors.Is(err, ErrVerifyMismatch)
}
