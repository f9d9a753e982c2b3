package config_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gdparse/pkg/config"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.InDelta(t, 0.5, cfg.Incremental.FullReparseThreshold, 0)
	assert.Equal(t, 3, cfg.Incremental.MaxAffectedMembers)
	assert.Equal(t, config.GranularityLine, cfg.Incremental.DiffGranularity)
	assert.Equal(t, 256, cfg.Parser.MaxDepth)
	assert.Equal(t, 100, cfg.Watch.DebounceMS)
	assert.Equal(t, config.FormatText, cfg.Format)
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies Ignore slice", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		original.Ignore = []string{"addons/**", ".godot/**"}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original.Ignore, clone.Ignore)

		clone.Ignore[0] = "changed"
		assert.Equal(t, "addons/**", original.Ignore[0])
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		original.Format = config.FormatJSON
		original.Jobs = 4
		original.Verify = true

		clone := original.Clone()
		assert.Equal(t, config.FormatJSON, clone.Format)
		assert.Equal(t, 4, clone.Jobs)
		assert.True(t, clone.Verify)
	})
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	original := config.NewConfig()
	original.Incremental.DiffGranularity = config.GranularityChar
	original.Ignore = []string{"addons/**"}
	original.Format = config.FormatJSON

	data, err := original.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "full_reparse_threshold: 0.5")
	assert.NotContains(t, string(data), "format", "CLI-only fields are not persisted")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original.Incremental, parsed.Incremental)
	assert.Equal(t, original.Parser, parsed.Parser)
	assert.Equal(t, original.Ignore, parsed.Ignore)
	assert.Empty(t, parsed.Format)
}

func TestFromYAMLPartial(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte("incremental:\n  max_affected_members: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Incremental.MaxAffectedMembers)
	assert.Zero(t, cfg.Incremental.FullReparseThreshold)
	assert.Zero(t, cfg.Parser.MaxDepth)

	_, err = config.FromYAML([]byte("incremental: [\n"))
	require.Error(t, err)
}

func TestToYAMLWithHeader(t *testing.T) {
	t.Parallel()

	data, err := config.NewConfig().ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# header\n\nincremental:"))
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal", func(t *testing.T) {
		t.Parallel()

		out, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(out), "# gdparse configuration")

		// Everything is commented out, so it parses to an empty config.
		cfg, err := config.FromYAML(out)
		require.NoError(t, err)
		assert.Zero(t, cfg.Incremental.MaxAffectedMembers)
	})

	t.Run("full", func(t *testing.T) {
		t.Parallel()

		out, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)

		cfg, err := config.FromYAML(out)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultMaxAffectedMembers, cfg.Incremental.MaxAffectedMembers)
		assert.Contains(t, cfg.Ignore, ".godot/**")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		out, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(out, &doc))
		assert.Contains(t, doc, "incremental")
		assert.Equal(t, "warn", doc["log_level"])
	})
}
