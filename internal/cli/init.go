package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdparse/internal/configloader"
	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/config"
)

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new gdparse configuration file",
		Long: `Create a .gdparse.yml configuration file in the current directory.

The minimal template lists every setting commented out with its default.
The full template writes the defaults as live values together with the
usual Godot ignore patterns. A JSON file is not discovered automatically;
pass it with --config.`,
		Example: `  gdparse init                    # Create a commented .gdparse.yml
  gdparse init --full             # Write every default explicitly
  gdparse init --format json      # Create .gdparse.json instead`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting with its default value")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: .gdparse.yml or .gdparse.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".gdparse.yml"
		if flags.format == "json" {
			outputPath = ".gdparse.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(cmd.Context(), absPath, content, flags.force); err != nil {
		if errors.Is(err, configloader.ErrConfigExists) {
			return fmt.Errorf("%w: %s already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	return nil
}
