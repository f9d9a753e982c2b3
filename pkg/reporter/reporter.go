// Package reporter renders parse runs and reparse reports.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/gdparse/pkg/config"
	"github.com/yaklabco/gdparse/pkg/runner"
)

// jsonSchemaVersion is the version stamped into JSON output.
const jsonSchemaVersion = "1.0.0"

// Reporter formats and writes results.
type Reporter interface {
	// Report writes formatted output for a parse run.
	// It returns the number of files that failed or did not round-trip.
	Report(ctx context.Context, result *runner.Result) (int, error)

	// ReportReparse writes formatted output for one reparse.
	ReportReparse(ctx context.Context, report *ReparseReport) error
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = config.FormatText
	}

	switch format {
	case config.FormatJSON:
		return NewJSONReporter(opts), nil
	case config.FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
