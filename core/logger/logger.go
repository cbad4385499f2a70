package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type options struct {
	level  slog.Level
	output io.Writer
	text   bool
	attrs  []slog.Attr
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum level by name ("debug", "info", "warn", "error").
// Unknown names keep the default info level.
func WithLevel(name string) Option {
	return func(o *options) {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.TrimSpace(name))); err == nil {
			o.level = lvl
		}
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithText switches from JSON to logfmt-style text output.
func WithText() Option {
	return func(o *options) {
		o.text = true
	}
}

// WithAttrs adds attributes to every record, such as the service name.
func WithAttrs(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// New returns a JSON logger writing to stdout at info level.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var h slog.Handler
	if o.text {
		h = slog.NewTextHandler(o.output, handlerOpts)
	} else {
		h = slog.NewJSONHandler(o.output, handlerOpts)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}

	return slog.New(h)
}
