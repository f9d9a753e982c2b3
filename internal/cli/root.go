// Package cli provides the Cobra command structure for gdparse.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gdparse command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gdparse",
		Short: "An incremental, lossless GDScript parser",
		Long: `gdparse parses GDScript into lossless syntax trees and keeps them current
as files change.

Edits are mapped onto the top-level members they touch and only those
members are reparsed; the engine falls back to a full parse whenever a
splice could not be trusted. The same engine backs a file watcher and a
language server.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !pretty.ValidColorMode(color) {
				return fmt.Errorf("%w: invalid color mode %q (want auto, always, never)", ErrInvalidUsage, color)
			}
			if debug {
				logging.SetLevel("debug")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", pretty.ColorAuto,
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newReparseCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newLSPCommand(info))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
