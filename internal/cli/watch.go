package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/internal/watch"
	"github.com/yaklabco/gdparse/pkg/config"
	"github.com/yaklabco/gdparse/pkg/reporter"
)

type watchFlags struct {
	format  string
	ignore  []string
	noPrime bool
}

func newWatchCommand() *cobra.Command {
	var cfg config.Config
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Reparse GDScript files as they change on disk",
		Long: `Watch a directory and keep a parsed tree for every .gd file below it.

Each saved change is diffed against the cached text and reparsed
incrementally; the report names which members were reparsed. Runs until
interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runWatch(cmd, root, &cfg, flags)
		},
	}

	cmd.Flags().BoolVar(&cfg.ShowDiff, "diff", false, "print a unified diff for each reparsed member")
	cmd.Flags().IntVar(&cfg.Watch.DebounceMS, "debounce-ms", 0, "quiet period before a change is reparsed")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.noPrime, "no-prime", false, "do not parse existing files at startup")

	return cmd
}

func runWatch(cmd *cobra.Command, root string, cfg *config.Config, flags *watchFlags) error {
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
	ctx := sess.ctx
	logger := logging.FromContext(ctx)

	store, err := sess.store()
	if err != nil {
		return err
	}
	defer store.Shutdown()

	rep, err := reporter.New(reporter.Options{
		Writer:     cmd.OutOrStdout(),
		Format:     sess.cfg.Format,
		Color:      sess.color,
		Compact:    true,
		WorkingDir: sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	// The watcher calls the handler from one goroutine; the lock guards the
	// priming calls made from Start.
	var mu sync.Mutex
	handler := func(event watch.Event) {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case event.Err != nil:
			logger.Warn("parse failed", logging.FieldPath, event.Path, logging.FieldError, event.Err)
		case event.Removed:
			logger.Info("removed", logging.FieldPath, event.Path)
		case event.Update == nil || event.Update.Result == nil:
		case event.Update.Previous == nil:
			logger.Info("parsed",
				logging.FieldPath, event.Path,
				logging.FieldMembers, len(event.Update.Result.Tree.Members))
		default:
			update := event.Update
			report := reporter.NewReparseReport(update.Path, update.Previous, update.Changes, update.Result, sess.cfg.ShowDiff)
			if err := rep.ReportReparse(ctx, report); err != nil {
				logger.Error("report failed", logging.FieldError, err)
			}
		}
	}

	watcher, err := watch.New(store, handler, watch.Options{
		Debounce: sess.debounce(),
		Ignore:   sess.cfg.Ignore,
		Prime:    !flags.noPrime,
	})
	if err != nil {
		return err
	}

	if err := watcher.Start(ctx, root); err != nil {
		_ = watcher.Stop()
		return fmt.Errorf("watch %s: %w", root, err)
	}
	logger.Info("watching", logging.FieldPath, root)

	<-ctx.Done()

	if err := watcher.Stop(); err != nil {
		return fmt.Errorf("stop watcher: %w", err)
	}
	return nil
}
