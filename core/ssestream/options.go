package ssestream

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/reactive/core/logger"
)

const (
	// DefaultKeepAlive is the interval between comment lines on an idle stream.
	DefaultKeepAlive = 30 * time.Second

	// DefaultBuffer is the demand each connection keeps outstanding.
	DefaultBuffer = 32
)

type sseConfig[T any] struct {
	eventName   string
	idGen       func(T) string
	reconnect   time.Duration
	keepAlive   time.Duration
	noKeepAlive bool
	buffer      int
	logger      *slog.Logger
	onError     func(context.Context, error)
}

// Option configures Handler.
type Option[T any] func(*sseConfig[T])

// WithEventName sets the event field of value events. Terminal events are
// always named "error" and "complete".
func WithEventName[T any](name string) Option[T] {
	return func(c *sseConfig[T]) {
		c.eventName = name
	}
}

// WithEventIDGenerator derives the id field from each value.
func WithEventIDGenerator[T any](fn func(T) string) Option[T] {
	return func(c *sseConfig[T]) {
		c.idGen = fn
	}
}

// WithReconnectTime sends a retry field so browsers wait d before reconnecting.
func WithReconnectTime[T any](d time.Duration) Option[T] {
	return func(c *sseConfig[T]) {
		c.reconnect = d
	}
}

func WithKeepAlive[T any](interval time.Duration) Option[T] {
	return func(c *sseConfig[T]) {
		c.keepAlive = interval
	}
}

func WithoutKeepAlive[T any]() Option[T] {
	return func(c *sseConfig[T]) {
		c.noKeepAlive = true
	}
}

// WithBuffer sets how many values may be in flight per connection.
func WithBuffer[T any](size int) Option[T] {
	return func(c *sseConfig[T]) {
		if size > 0 {
			c.buffer = size
		}
	}
}

func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(c *sseConfig[T]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHandler receives write and encoding failures.
func WithErrorHandler[T any](fn func(context.Context, error)) Option[T] {
	return func(c *sseConfig[T]) {
		c.onError = fn
	}
}

func newConfig[T any](opts []Option[T]) *sseConfig[T] {
	cfg := &sseConfig[T]{
		keepAlive: DefaultKeepAlive,
		buffer:    DefaultBuffer,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *sseConfig[T]) reportError(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}
