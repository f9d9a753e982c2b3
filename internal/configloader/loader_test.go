package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdparse/pkg/config"
)

func isolatedOptions(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "project.godot"), "")

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig().Incremental, result.Config.Incremental)
	assert.Equal(t, config.DefaultMaxDepth, result.Config.Parser.MaxDepth)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gdparse.yml"), `
incremental:
  max_affected_members: 5
  full_reparse_threshold: 0
ignore:
  - "addons/**"
`)

	result, err := Load(context.Background(), isolatedOptions(tmpDir))
	require.NoError(t, err)

	assert.Equal(t, 5, result.Config.Incremental.MaxAffectedMembers)
	assert.Zero(t, result.Config.Incremental.FullReparseThreshold, "explicit zero in a file is kept")
	assert.Equal(t, config.GranularityLine, result.Config.Incremental.DiffGranularity, "absent keys keep defaults")
	assert.Equal(t, []string{"addons/**"}, result.Config.Ignore)
	assert.Len(t, result.LoadedFrom, 1)
}

func TestLoad_UpwardSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gdparse.yml"), "parser:\n  max_depth: 10\n")
	repo := filepath.Join(tmpDir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	nested := filepath.Join(repo, "scenes", "player")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Empty(t, found)

	writeFile(t, filepath.Join(repo, ".gdparse.yaml"), "parser:\n  max_depth: 12\n")
	found, err = FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo, ".gdparse.yaml"), found)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gdparse.yml"), "parser:\n  max_depth: 10\nwatch:\n  debounce_ms: 50\n")
	explicit := filepath.Join(tmpDir, "custom.yml")
	writeFile(t, explicit, "parser:\n  max_depth: 20\n")

	opts := isolatedOptions(tmpDir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Config.Parser.MaxDepth)
	assert.Equal(t, 50, result.Config.Watch.DebounceMS)
	assert.Equal(t, []string{filepath.Join(tmpDir, ".gdparse.yml"), explicit}, result.LoadedFrom)
	assert.Equal(t, explicit, result.Paths.Explicit)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".gdparse.yml"), "incremental:\n  diff_granularity: char\n")

	opts := isolatedOptions(tmpDir)
	opts.CLIConfig = &config.Config{Format: config.FormatJSON, Jobs: 2, Verify: true}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, config.FormatJSON, result.Config.Format)
	assert.Equal(t, 2, result.Config.Jobs)
	assert.True(t, result.Config.Verify)
	assert.Equal(t, config.GranularityChar, result.Config.Incremental.DiffGranularity)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "threshold out of range", content: "incremental:\n  full_reparse_threshold: 1.5\n", field: "incremental.full_reparse_threshold"},
		{name: "zero max affected", content: "incremental:\n  max_affected_members: 0\n", field: "incremental.max_affected_members"},
		{name: "bad granularity", content: "incremental:\n  diff_granularity: word\n", field: "incremental.diff_granularity"},
		{name: "bad depth", content: "parser:\n  max_depth: -1\n", field: "parser.max_depth"},
		{name: "bad log level", content: "log_level: loud\n", field: "log_level"},
		{name: "bad glob", content: "ignore:\n  - \"[\"\n", field: "ignore[0]"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, ".gdparse.yml")
			writeFile(t, path, testCase.content)

			_, err := Load(context.Background(), isolatedOptions(tmpDir))
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, testCase.field, validationErr.Field)
			assert.Equal(t, path, validationErr.FilePath)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		writeFile(t, filepath.Join(tmpDir, ".gdparse.yml"), "parser: [\n")

		_, err := Load(context.Background(), isolatedOptions(tmpDir))
		require.ErrorContains(t, err, "parse YAML")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()

		opts := isolatedOptions(t.TempDir())
		opts.ExplicitPath = filepath.Join(t.TempDir(), "missing.yml")

		_, err := Load(context.Background(), opts)
		require.ErrorContains(t, err, "load explicit config")
	})
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolatedOptions(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GDPARSE_MAX_AFFECTED_MEMBERS", "7")
	t.Setenv("GDPARSE_FULL_REPARSE_THRESHOLD", "0.25")
	t.Setenv("GDPARSE_DIFF_GRANULARITY", "char")
	t.Setenv("GDPARSE_IGNORE", " addons/** , ,.godot/**")
	t.Setenv("GDPARSE_VERIFY", "1")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, 7, cfg.Incremental.MaxAffectedMembers)
	assert.InDelta(t, 0.25, cfg.Incremental.FullReparseThreshold, 1e-9)
	assert.Equal(t, config.GranularityChar, cfg.Incremental.DiffGranularity)
	assert.Equal(t, []string{"addons/**", ".godot/**"}, cfg.Ignore)
	assert.True(t, cfg.Verify)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("GDPARSE_MAX_DEPTH", "deep")

	err := LoadFromEnv(config.NewConfig())
	require.ErrorContains(t, err, "GDPARSE_MAX_DEPTH")
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GDPARSE_MAX_DEPTH", GetEnvVarName("parser.max_depth"))
	assert.Empty(t, GetEnvVarName("nope"))
	assert.Contains(t, ListEnvVars(), "GDPARSE_DEBOUNCE_MS")
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	override := &config.Config{Ignore: []string{"a"}, Parser: config.ParserConfig{MaxDepth: 9}}

	merged := MergeAll(base, override)
	assert.Equal(t, 9, merged.Parser.MaxDepth)
	assert.Equal(t, []string{"a"}, merged.Ignore)
	assert.Equal(t, base.Incremental, merged.Incremental)
	assert.Nil(t, MergeAll())
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gdparse.yml")
	require.NoError(t, WriteConfig(context.Background(), path, []byte("a: 1\n"), false))

	err := WriteConfig(context.Background(), path, []byte("a: 2\n"), false)
	require.True(t, errors.Is(err, ErrConfigExists))

	require.NoError(t, WriteConfig(context.Background(), path, []byte("a: 2\n"), true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 2\n", string(data))
}
