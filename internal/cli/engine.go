package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gdparse/internal/configloader"
	"github.com/yaklabco/gdparse/internal/logging"
	"github.com/yaklabco/gdparse/pkg/config"
	"github.com/yaklabco/gdparse/pkg/edit"
	"github.com/yaklabco/gdparse/pkg/gdparser"
	"github.com/yaklabco/gdparse/pkg/incremental"
	"github.com/yaklabco/gdparse/pkg/workspace"
)

var errConfig = errors.New("failed to load configuration")

// session is the resolved state shared by every command.
type session struct {
	ctx     context.Context
	cfg     *config.Config
	workDir string
	color   string
}

// loadSession resolves configuration for cmd, with cliCfg holding the
// values set by flags.
func loadSession(cmd *cobra.Command, cliCfg *config.Config) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errConfig, err)
	}

	cfg := loadResult.Config

	debug, _ := cmd.Flags().GetBool("debug")
	if !debug {
		logging.SetLevel(cfg.LogLevel)
	}

	logger := logging.FromContext(ctx)
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	return &session{ctx: ctx, cfg: cfg, workDir: workDir, color: colorMode}, nil
}

// fileParser builds the whole-file parser the configuration describes.
func (s *session) fileParser() *gdparser.Parser {
	return gdparser.New(gdparser.Options{MaxDepth: s.cfg.Parser.MaxDepth})
}

// engine builds the incremental parser the configuration describes.
func (s *session) engine() (*incremental.Parser, error) {
	engine, err := incremental.NewParser(s.fileParser(), incremental.Options{
		FullReparseThreshold: s.cfg.Incremental.FullReparseThreshold,
		MaxAffectedMembers:   s.cfg.Incremental.MaxAffectedMembers,
	})
	if err != nil {
		return nil, errors.Join(errConfig, err)
	}
	return engine, nil
}

// store builds a document store over a fresh engine.
func (s *session) store() (*workspace.Store, error) {
	engine, err := s.engine()
	if err != nil {
		return nil, err
	}
	return workspace.NewStore(engine, workspace.Options{Granularity: s.granularity()}), nil
}

func (s *session) granularity() edit.Granularity {
	return edit.Granularity(s.cfg.Incremental.DiffGranularity)
}

func (s *session) debounce() time.Duration {
	return time.Duration(s.cfg.Watch.DebounceMS) * time.Millisecond
}
