// Package config defines core configuration types for gdparse.
// These types are pure data structures with no dependency on the loaders
// that populate them.
package config

// Defaults applied by NewConfig.
const (
	DefaultFullReparseThreshold = 0.5
	DefaultMaxAffectedMembers   = 3
	DefaultDiffGranularity      = GranularityLine
	DefaultMaxDepth             = 256
	DefaultDebounceMS           = 100
	DefaultLogLevel             = "warn"
)

// Granularity names how edits are computed when only old and new text are
// known.
type Granularity string

const (
	GranularityLine Granularity = "line"
	GranularityChar Granularity = "char"
)

// IsValid returns true if the granularity is known.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityLine, GranularityChar:
		return true
	default:
		return false
	}
}

// IncrementalConfig tunes the incremental reparse engine.
type IncrementalConfig struct {
	// FullReparseThreshold is the edited-bytes ratio above which the whole
	// file is reparsed.
	FullReparseThreshold float64 `yaml:"full_reparse_threshold"`

	// MaxAffectedMembers bounds how many members one edit batch may touch.
	MaxAffectedMembers int `yaml:"max_affected_members"`

	// DiffGranularity selects line or char edit computation.
	DiffGranularity Granularity `yaml:"diff_granularity"`
}

// ParserConfig tunes the GDScript parser.
type ParserConfig struct {
	// MaxDepth bounds bracket and block nesting.
	MaxDepth int `yaml:"max_depth"`
}

// WatchConfig tunes the filesystem watcher.
type WatchConfig struct {
	// DebounceMS is the quiet period before a changed file is reparsed.
	DebounceMS int `yaml:"debounce_ms"`
}

// Config is the root configuration structure for gdparse.
type Config struct {
	Incremental IncrementalConfig `yaml:"incremental"`
	Parser      ParserConfig      `yaml:"parser"`
	Watch       WatchConfig       `yaml:"watch"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Verify re-parses incremental results from scratch and compares them.
	Verify bool `yaml:"-"`

	// ShowDiff prints a unified diff for each changed member.
	ShowDiff bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Incremental: IncrementalConfig{
			FullReparseThreshold: DefaultFullReparseThreshold,
			MaxAffectedMembers:   DefaultMaxAffectedMembers,
			DiffGranularity:      DefaultDiffGranularity,
		},
		Parser: ParserConfig{
			MaxDepth: DefaultMaxDepth,
		},
		Watch: WatchConfig{
			DebounceMS: DefaultDebounceMS,
		},
		LogLevel: DefaultLogLevel,
		Format:   FormatText,
		Jobs:     0, // 0 means use GOMAXPROCS
	}
}
