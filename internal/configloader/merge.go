package configloader

import "github.com/yaklabco/gdparse/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans: only true overrides
//
// File layers are decoded over the running config instead (see
// loadConfigFile), so explicit zeros in YAML survive; merge is for sparse
// override configs such as CLI flags.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Incremental.FullReparseThreshold != 0 {
		result.Incremental.FullReparseThreshold = override.Incremental.FullReparseThreshold
	}
	if override.Incremental.MaxAffectedMembers != 0 {
		result.Incremental.MaxAffectedMembers = override.Incremental.MaxAffectedMembers
	}
	if override.Incremental.DiffGranularity != "" {
		result.Incremental.DiffGranularity = override.Incremental.DiffGranularity
	}
	if override.Parser.MaxDepth != 0 {
		result.Parser.MaxDepth = override.Parser.MaxDepth
	}
	if override.Watch.DebounceMS != 0 {
		result.Watch.DebounceMS = override.Watch.DebounceMS
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.Verify {
		result.Verify = true
	}
	if override.ShowDiff {
		result.ShowDiff = true
	}

	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
