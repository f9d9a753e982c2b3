package configloader

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "incremental.max_affected_members").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Nesting limits beyond this are accepted but risk deep recursion in callers
// that walk the tree.
const maxDepthWarning = 4096

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	addError := func(field string, value any, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			Field: field, Value: value, Message: fmt.Sprintf(format, args...),
		})
	}

	inc := cfg.Incremental
	if inc.FullReparseThreshold < 0 || inc.FullReparseThreshold > 1 {
		addError("incremental.full_reparse_threshold", inc.FullReparseThreshold,
			"threshold %v must be between 0 and 1", inc.FullReparseThreshold)
	}
	if inc.MaxAffectedMembers < 1 {
		addError("incremental.max_affected_members", inc.MaxAffectedMembers,
			"max_affected_members must be >= 1")
	}
	if !inc.DiffGranularity.IsValid() {
		addError("incremental.diff_granularity", inc.DiffGranularity,
			"invalid granularity %q; must be one of: line, char", inc.DiffGranularity)
	}

	if cfg.Parser.MaxDepth < 1 {
		addError("parser.max_depth", cfg.Parser.MaxDepth, "max_depth must be >= 1")
	} else if cfg.Parser.MaxDepth > maxDepthWarning {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "parser.max_depth",
			Value:   cfg.Parser.MaxDepth,
			Message: fmt.Sprintf("max_depth %d is unusually large", cfg.Parser.MaxDepth),
		})
	}

	if cfg.Watch.DebounceMS < 0 {
		addError("watch.debounce_ms", cfg.Watch.DebounceMS, "debounce_ms must be >= 0")
	}

	if cfg.LogLevel != "" && !logging.ValidLevel(cfg.LogLevel) {
		addError("log_level", cfg.LogLevel,
			"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		addError("format", cfg.Format, "invalid format %q; must be one of: text, json", cfg.Format)
	}

	if cfg.Jobs < 0 {
		addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern %q", pattern)
		}
	}

	return result
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
