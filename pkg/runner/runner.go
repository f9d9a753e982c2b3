package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/fsutil"
	"github.com/yaklabco/gdparse/pkg/incremental"
)

// Runner parses discovered files with a whole-file parser.
type Runner struct {
	parser incremental.FileParser
}

// New creates a new Runner backed by parser.
func New(parser incremental.FileParser) *Runner {
	return &Runner{parser: parser}
}

// Run discovers files under opts.Paths and parses them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Parses files with at most opts.Jobs workers
//   - Checks that every tree renders back to its file
//   - Respects context cancellation
//
// A file that fails to parse is recorded in its outcome; it does not stop
// the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	// Each worker writes only its own slot, so the slice needs no lock and
	// keeps discovery order.
	outcomes := make([]FileOutcome, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for idx, path := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcomes[idx] = r.parseFile(groupCtx, path)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}

	logger.Debug("run complete",
		logging.FieldJobs, jobs,
		logging.FieldFilesParsed, result.Stats.FilesParsed,
		logging.FieldFilesFailed, result.Stats.FilesFailed)

	return result, nil
}

// parseFile reads and parses one file.
func (r *Runner) parseFile(ctx context.Context, path string) FileOutcome {
	outcome := FileOutcome{Path: path}

	src, err := fsutil.ReadSource(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	text := src.Text
	outcome.Bytes = len(text)

	tree, err := r.parser.ParseFile(ctx, text)
	if err != nil {
		outcome.Error = fmt.Errorf("parse %s: %w", path, err)
		return outcome
	}

	outcome.Tree = tree
	outcome.RoundTrip = tree.Render() == text
	if !outcome.RoundTrip {
		logging.FromContext(ctx).Warn("round trip mismatch", logging.FieldPath, path)
	}
	return outcome
}
