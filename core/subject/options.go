package subject

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/reactive/core/logger"
)

// Overflow selects what happens to a value that reaches an observer with no outstanding demand.
type Overflow uint8

const (
	// OverflowDrop skips the value for that observer only.
	OverflowDrop Overflow = iota

	// OverflowError cancels the observer and signals OnError(ErrMissingBackpressure).
	OverflowError
)

func (o Overflow) String() string {
	switch o {
	case OverflowDrop:
		return "drop"
	case OverflowError:
		return "error"
	default:
		return fmt.Sprintf("overflow(%d)", uint8(o))
	}
}

// ParseOverflow converts "drop" or "error" (case-insensitive) to an Overflow.
// An empty string selects OverflowDrop.
func ParseOverflow(s string) (Overflow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return OverflowDrop, nil
	case "error":
		return OverflowError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOverflow, s)
	}
}

type options struct {
	name     string
	overflow Overflow
	logger   *slog.Logger
}

// Option configures a Subject.
type Option func(*options)

// WithName sets the name used in log records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithOverflow sets the strategy for values that reach an observer without demand.
// Default is OverflowDrop.
func WithOverflow(overflow Overflow) Option {
	return func(o *options) {
		o.overflow = overflow
	}
}

// WithLogger configures structured logging. Records are emitted at debug level
// for drops and terminal transitions, and at error level for observer panics.
// A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		overflow: OverflowDrop,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
