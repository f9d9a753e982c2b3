package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting uncommented with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate()
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# gdparse configuration
# See: https://github.com/yaklabco/gdparse

# incremental:
#   # Reparse the whole file when edits exceed this share of its length.
#   full_reparse_threshold: 0.5
#   # Reparse the whole file when an edit batch touches more members.
#   max_affected_members: 3
#   # How edits are derived from old and new text: line or char.
#   diff_granularity: line

# parser:
#   # Maximum bracket and block nesting.
#   max_depth: 256

# watch:
#   debounce_ms: 100

# File patterns to ignore (glob patterns)
# ignore:
#   - ".godot/**"
#   - "addons/**"

# log_level: warn
`

// generateFullTemplate writes the defaults with a header and the common
// Godot ignore patterns.
func generateFullTemplate() ([]byte, error) {
	cfg := NewConfig()
	cfg.Ignore = defaultIgnores()

	out, err := cfg.ToYAMLWithHeader(DefaultTemplateHeader() + "\n#\n# Full template: every setting with its default value.")
	if err != nil {
		return nil, fmt.Errorf("generate full template: %w", err)
	}
	return out, nil
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	cfg := NewConfig()
	doc := map[string]any{
		"incremental": map[string]any{
			"full_reparse_threshold": cfg.Incremental.FullReparseThreshold,
			"max_affected_members":   cfg.Incremental.MaxAffectedMembers,
			"diff_granularity":       string(cfg.Incremental.DiffGranularity),
		},
		"parser": map[string]any{
			"max_depth": cfg.Parser.MaxDepth,
		},
		"watch": map[string]any{
			"debounce_ms": cfg.Watch.DebounceMS,
		},
		"ignore":    defaultIgnores(),
		"log_level": cfg.LogLevel,
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

func defaultIgnores() []string {
	return []string{".godot/**", ".import/**", "addons/**"}
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gdparse configuration
# See: https://github.com/yaklabco/gdparse`
}
