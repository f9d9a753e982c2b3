package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/internal/lsp"
	"github.com/yaklabco/gdparse/pkg/config"
)

func newLSPCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Serve the language server protocol on stdio",
		Long: `Run a language server on standard input and output.

Open documents are kept parsed and reparsed incrementally on every
didChange notification. The server publishes parse errors as diagnostics
and answers documentSymbol requests with the file's members.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := loadSession(cmd, &cfg)
			if err != nil {
				return err
			}

			store, err := sess.store()
			if err != nil {
				return err
			}
			defer store.Shutdown()

			debug, _ := cmd.Flags().GetBool("debug")
			logging.FromContext(sess.ctx).Debug("starting language server", logging.FieldVersion, info.Version)

			return lsp.New(sess.ctx, store, info.Version, debug).RunStdio()
		},
	}

	return cmd
}
