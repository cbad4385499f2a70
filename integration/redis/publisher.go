package redis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/subject"
)

// PublishClient is the subset of the Redis client used by Publisher.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type PublishClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Publisher is an observer that republishes every value to a Redis channel.
// Attach it to a subject to mirror the stream across processes:
//
//	pub := redis.NewPublisher(ctx, client, "prices", redis.JSONCodec[Price]{})
//	prices.Subscribe(pub)
//
// Publish failures are logged and counted; they do not affect the stream.
type Publisher[T any] struct {
	ctx     context.Context
	client  PublishClient
	channel string
	codec   Codec[T]
	logger  *slog.Logger

	published atomic.Int64
	failed    atomic.Int64
	done      chan struct{}
	stopOnce  sync.Once
	err       atomic.Pointer[error]
}

var _ subject.Observer[any] = (*Publisher[any])(nil)

// PublisherOption configures a Publisher.
type PublisherOption func(*publisherOptions)

type publisherOptions struct {
	logger *slog.Logger
}

// WithPublisherLogger sets the logger for the publisher.
func WithPublisherLogger(l *slog.Logger) PublisherOption {
	return func(o *publisherOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewPublisher creates a publisher bound to ctx. Values arriving after ctx is
// done are not published.
func NewPublisher[T any](ctx context.Context, client PublishClient, channel string, codec Codec[T], opts ...PublisherOption) *Publisher[T] {
	o := &publisherOptions{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}
	return &Publisher[T]{
		ctx:     ctx,
		client:  client,
		channel: channel,
		codec:   codec,
		logger:  o.logger,
		done:    make(chan struct{}),
	}
}

func (p *Publisher[T]) OnNext(v T) {
	if err := p.publish(v); err != nil {
		p.failed.Add(1)
		p.logger.Error("redis publish failed",
			logger.Component("redis_publisher"),
			logger.Channel(p.channel),
			logger.Error(err),
		)
		return
	}
	p.published.Add(1)
}

func (p *Publisher[T]) publish(v T) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	data, err := p.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err := p.client.Publish(p.ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// OnError stops the publisher. Only the first terminal event is recorded.
func (p *Publisher[T]) OnError(err error) {
	p.stopOnce.Do(func() {
		p.err.Store(&err)
		p.logger.Warn("stream failed, redis publisher stopped",
			logger.Component("redis_publisher"),
			logger.Channel(p.channel),
			logger.Error(err),
		)
		close(p.done)
	})
}

func (p *Publisher[T]) OnCompleted() {
	p.stopOnce.Do(func() {
		p.logger.Info("stream completed, redis publisher stopped",
			logger.Component("redis_publisher"),
			logger.Channel(p.channel),
		)
		close(p.done)
	})
}

// Done returns a channel closed when the source stream terminates.
func (p *Publisher[T]) Done() <-chan struct{} {
	return p.done
}

// Err returns the error the source stream terminated with, if any.
func (p *Publisher[T]) Err() error {
	if e := p.err.Load(); e != nil {
		return *e
	}
	return nil
}

// Published returns the number of values published successfully.
func (p *Publisher[T]) Published() int64 {
	return p.published.Load()
}

// Failed returns the number of values that could not be published.
func (p *Publisher[T]) Failed() int64 {
	return p.failed.Load()
}
