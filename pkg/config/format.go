package config

import (
	"fmt"
	"strings"
)

// OutputFormat specifies the output format for reports.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts a user-supplied name into an OutputFormat.
// The empty string selects text.
func ParseOutputFormat(name string) (OutputFormat, error) {
	if name == "" {
		return FormatText, nil
	}
	format := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	if !format.IsValid() {
		return "", fmt.Errorf("unknown output format %q (want text or json)", name)
	}
	return format, nil
}
