package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/config"
	"github.com/yaklabco/gdparse/pkg/reporter"
	"github.com/yaklabco/gdparse/pkg/runner"
)

type parseFlags struct {
	format        string
	ignore        []string
	members       bool
	detectContent bool
	followLinks   bool
	compact       bool
	noSummary     bool
}

func newParseCommand() *cobra.Command {
	var cfg config.Config
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Parse GDScript files and check that they round-trip",
		Long: `Parse GDScript files into lossless trees.

By default, parses every .gd file below the current directory. Each tree is
rendered back and compared with its source; a file that fails to parse or
does not reproduce its source byte for byte is reported as a failure.`,
		Example: `  gdparse parse                  # Parse the current project
  gdparse parse scenes/ --members  # List each file's members
  gdparse parse --format json      # Machine-readable outline`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.members, "members", false, "list the members of each file")
	cmd.Flags().BoolVar(&flags.detectContent, "detect-content", false,
		"accept named files without a .gd extension when they look like GDScript")
	cmd.Flags().BoolVar(&flags.followLinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use minified JSON")
	cmd.Flags().BoolVar(&flags.noSummary, "no-summary", false, "omit the summary")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, cfg *config.Config, flags *parseFlags) error {
	format, err := config.ParseOutputFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	cfg.Format = format
	cfg.Ignore = flags.ignore

	sess, err := loadSession(cmd, cfg)
	if err != nil {
		return err
	}
	logger := logging.FromContext(sess.ctx)

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     sess.workDir,
		Extensions:     runner.DefaultExtensions(),
		ExcludeGlobs:   sess.cfg.Ignore,
		FollowSymlinks: flags.followLinks,
		DetectContent:  flags.detectContent,
		Jobs:           sess.cfg.Jobs,
	}

	logger.Debug("starting parse run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs)

	result, err := runner.New(sess.fileParser()).Run(sess.ctx, runOpts)
	if err != nil {
		return fmt.Errorf("parse run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      sess.cfg.Format,
		Color:       sess.color,
		ShowMembers: flags.members,
		ShowSummary: !flags.noSummary,
		Compact:     flags.compact,
		WorkingDir:  sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(sess.ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrParseFailures
	}
	return nil
}
