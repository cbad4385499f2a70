package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/subject"
)

// RelayOption configures Listen and Forward.
type RelayOption func(*relayOptions)

type relayOptions struct {
	logger        *slog.Logger
	skipInvalid   bool
	completeOnEOF bool
}

// WithRelayLogger sets the logger for the relay.
func WithRelayLogger(l *slog.Logger) RelayOption {
	return func(o *relayOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSkipInvalid makes the relay log and skip payloads that fail to decode
// instead of terminating the sink with ErrDecode.
func WithSkipInvalid() RelayOption {
	return func(o *relayOptions) {
		o.skipInvalid = true
	}
}

// WithoutCompletion leaves the sink open when the Redis channel closes, so
// several relays can feed one subject.
func WithoutCompletion() RelayOption {
	return func(o *relayOptions) {
		o.completeOnEOF = false
	}
}

func newRelayOptions(opts []RelayOption) *relayOptions {
	o := &relayOptions{
		logger:        logger.Discard(),
		completeOnEOF: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Forward pumps Redis pub/sub messages into sink until msgs closes or ctx is done.
//
// Forward is the single upstream for sink and calls it serially. When msgs
// closes, sink is completed. A payload that cannot be decoded terminates sink
// with ErrDecode unless WithSkipInvalid is set. Context cancellation returns
// ctx.Err() and leaves sink open.
func Forward[T any](ctx context.Context, msgs <-chan *redis.Message, sink subject.Observer[T], codec Codec[T], opts ...RelayOption) error {
	o := newRelayOptions(opts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if o.completeOnEOF {
					sink.OnCompleted()
				}
				return nil
			}

			v, err := codec.Decode([]byte(msg.Payload))
			if err != nil {
				err = fmt.Errorf("%w: %w", ErrDecode, err)
				if o.skipInvalid {
					o.logger.Warn("skipping undecodable redis message",
						logger.Component("redis_relay"),
						logger.Channel(msg.Channel),
						logger.Error(err),
					)
					continue
				}
				sink.OnError(err)
				return err
			}
			sink.OnNext(v)
		}
	}
}

// Listen subscribes to a Redis channel and forwards its messages into sink
// until ctx is done. See Forward for termination rules.
func Listen[T any](ctx context.Context, client redis.UniversalClient, channel string, sink subject.Observer[T], codec Codec[T], opts ...RelayOption) error {
	o := newRelayOptions(opts)

	ps := client.Subscribe(ctx, channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return errors.Join(ErrSubscribeFailed, err)
	}

	o.logger.Info("redis relay started", logger.Component("redis_relay"), logger.Channel(channel))
	err := Forward(ctx, ps.Channel(), sink, codec, opts...)
	o.logger.Info("redis relay stopped",
		logger.Component("redis_relay"),
		logger.Channel(channel),
		logger.Error(err),
	)
	return err
}
