package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/config"
	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/fsutil"
	"github.com/yaklabco/gdparse/pkg/gdast"
	"github.com/yaklabco/gdparse/pkg/incremental"
	"github.com/yaklabco/gdparse/pkg/reporter"
)

// stdinPath names standard input as the NEW argument.
const stdinPath = "-"

type reparseFlags struct {
	format      string
	granularity string
	compact     bool
}

func newReparseCommand() *cobra.Command {
	var cfg config.Config
	flags := &reparseFlags{}

	cmd := &cobra.Command{
		Use:   "reparse OLD NEW",
		Short: "Reparse an edited file incrementally",
		Long: `Parse OLD, derive the edits that turn it into NEW, and reparse NEW
incrementally from the OLD tree.

The report names whether the engine spliced individual members or fell back
to a full parse, and why. Use "-" as NEW to read the edited text from
standard input.`,
		Example: `  gdparse reparse player.gd player_edited.gd --diff
  git show HEAD:player.gd | gdparse reparse player.gd - --verify`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReparse(cmd, args[0], args[1], &cfg, flags)
		},
	}

	cmd.Flags().BoolVar(&cfg.ShowDiff, "diff", false, "print a unified diff for each reparsed member")
	cmd.Flags().BoolVar(&cfg.Verify, "verify", false, "compare the result with a full parse of NEW")
	cmd.Flags().StringVar(&flags.granularity, "granularity", "", "edit computation: line, char (default from config)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use minified JSON")

	return cmd
}

func runReparse(cmd *cobra.Command, oldPath, newPath string, cfg *config.Config, flags *reparseFlags) error {
	if oldPath == stdinPath {
		return fmt.Errorf("%w: OLD must be a file; only NEW may be %q", ErrInvalidUsage, stdinPath)
	}

	format, err := config.ParseOutputFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	cfg.Format = format

	if flags.granularity != "" {
		granularity := config.Granularity(flags.granularity)
		if !granularity.IsValid() {
			return fmt.Errorf("%w: unknown granularity %q (want line or char)", ErrInvalidUsage, flags.granularity)
		}
		cfg.Incremental.DiffGranularity = granularity
	}

	sess, err := loadSession(cmd, cfg)
	if err != nil {
		return err
	}
	ctx := logging.WithFields(sess.ctx, logging.FieldPath, oldPath)
	logger := logging.FromContext(ctx)

	oldText, err := readSource(ctx, oldPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	newText, err := readSource(ctx, newPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	engine, err := sess.engine()
	if err != nil {
		return err
	}

	oldTree, err := engine.ParseFile(ctx, oldText)
	if err != nil {
		return fmt.Errorf("parse %s: %w", oldPath, err)
	}

	changes := edit.ComputeChangesWith(oldText, newText, sess.granularity())
	logger.Debug("computed edits",
		logging.FieldEdits, len(changes),
		logging.FieldGranularity, sess.granularity())

	result, err := engine.ParseIncremental(ctx, oldTree, newText, changes)
	if err != nil {
		return fmt.Errorf("reparse %s: %w", newPath, err)
	}

	report := reporter.NewReparseReport(oldPath, oldTree, changes, result, sess.cfg.ShowDiff)

	verified := true
	if sess.cfg.Verify {
		verified = matchesFullParse(ctx, sess, newText, result.Tree)
		report.SetVerified(verified)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:     cmd.OutOrStdout(),
		Format:     sess.cfg.Format,
		Color:      sess.color,
		Compact:    flags.compact,
		WorkingDir: sess.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if err := rep.ReportReparse(ctx, report); err != nil {
		return fmt.Errorf("report reparse: %w", err)
	}

	if !verified {
		return ErrVerifyMismatch
	}
	return nil
}

// matchesFullParse reports whether tree is indistinguishable from a fresh
// parse of text.
func matchesFullParse(ctx context.Context, sess *session, text string, tree *gdast.Tree) bool {
	full, err := sess.fileParser().ParseFile(ctx, text)
	if err != nil {
		logging.FromContext(ctx).Warn("full parse failed during verify", logging.FieldError, err)
		return false
	}
	if full.Render() != tree.Render() || len(full.Members) != len(tree.Members) {
		return false
	}
	for i, member := range full.Members {
		if member.Kind() != tree.Members[i].Kind() {
			return false
		}
	}
	return len(incremental.ChangedRanges(full, tree)) == 0
}

// readSource reads path, or stdin when path is "-". An interactive stdin is
// refused so the command never blocks waiting for typed input.
func readSource(ctx context.Context, path string, stdin io.Reader) (string, error) {
	if path != stdinPath {
		src, err := fsutil.ReadSource(ctx, path)
		if err != nil {
			return "", err
		}
		return src.Text, nil
	}

	if file, ok := stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return "", fmt.Errorf("%w: refusing to read source from a terminal", ErrInvalidUsage)
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(content), nil
}
