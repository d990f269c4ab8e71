package denyset

import (
	"log/slog"

	"github.com/hupe1980/denyset/bitset"
	"github.com/hupe1980/denyset/core"
)

type options struct {
	logger        *Logger
	groupShift    uint32
	blockBits     uint32
	maxValue      core.ID
	allowedGroups []uint32
	noRoaring     bool
}

func defaultOptions() options {
	return options{
		logger:     NoopLogger(),
		groupShift: bitset.DefaultGroupShift,
	}
}

// Option configures New.
type Option func(*options)

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithGroupShift configures how the bitset index partitions a value into
// group and local index. Default: 8 (high byte / low byte).
func WithGroupShift(shift uint32) Option {
	return func(o *options) {
		o.groupShift = shift
	}
}

// WithBlockBits overrides the bitset block width. Default: 1 << shift.
func WithBlockBits(bits uint32) Option {
	return func(o *options) {
		o.blockBits = bits
	}
}

// WithMaxValue declares the maximum representable value. Larger values fail
// New with ErrInvalidDomain. Zero (the default) disables the check.
func WithMaxValue(m core.ID) Option {
	return func(o *options) {
		o.maxValue = m
	}
}

// WithAllowedGroups restricts values to an explicit allow-list of groups.
// Values outside fail New with ErrUnexpectedGroup. An empty list (the
// default) accepts any group.
func WithAllowedGroups(groups ...uint32) Option {
	return func(o *options) {
		o.allowedGroups = groups
	}
}

// WithoutRoaring skips building the roaring bitmap strategy.
func WithoutRoaring() Option {
	return func(o *options) {
		o.noRoaring = true
	}
}

func (o *options) bitsetOptions() []func(*bitset.Options) {
	return []func(*bitset.Options){func(bo *bitset.Options) {
		bo.GroupShift = o.groupShift
		bo.BlockBits = o.blockBits
		bo.MaxValue = o.maxValue
		bo.AllowedGroups = o.allowedGroups
	}}
}
