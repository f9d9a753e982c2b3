package incremental

import (
	"errors"
	"fmt"
)

// Defaults for Options.
const (
	DefaultFullReparseThreshold = 0.5
	DefaultMaxAffectedMembers   = 3
)

// ErrInvalidOptions is returned for out-of-range options.
var ErrInvalidOptions = errors.New("invalid incremental options")

// Options tunes when the engine gives up on incremental reparsing.
type Options struct {
	// FullReparseThreshold is the ratio of edited bytes to original length
	// above which the whole file is reparsed. Range [0, 1].
	FullReparseThreshold float64

	// MaxAffectedMembers is the largest number of members an edit batch may
	// touch and still be reparsed member by member. At least 1.
	MaxAffectedMembers int
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		FullReparseThreshold: DefaultFullReparseThreshold,
		MaxAffectedMembers:   DefaultMaxAffectedMembers,
	}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if o.FullReparseThreshold < 0 || o.FullReparseThreshold > 1 {
		return fmt.Errorf("%w: full reparse threshold %v not in [0, 1]", ErrInvalidOptions, o.FullReparseThreshold)
	}
	if o.MaxAffectedMembers < 1 {
		return fmt.Errorf("%w: max affected members %d < 1", ErrInvalidOptions, o.MaxAffectedMembers)
	}
	return nil
}
