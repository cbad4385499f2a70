package broadcast

import (
	"context"
	"errors"
)

var (
	// ErrBroadcasterClosed is returned by Broadcast after Close.
	ErrBroadcasterClosed = errors.New("broadcaster is closed")

	// ErrSubscriberClosed is returned by Subscriber.Close on a second call.
	ErrSubscriberClosed = errors.New("subscriber is closed")
)

// Message wraps a broadcast payload.
type Message[T any] struct {
	Data T
}

// Broadcaster sends messages to multiple subscribers.
type Broadcaster[T any] interface {
	Subscribe(ctx context.Context) Subscriber[T]
	Broadcast(ctx context.Context, msg Message[T]) error
	Close() error
}

// Subscriber receives broadcast messages.
type Subscriber[T any] interface {
	// Receive returns the message channel. The channel is closed when the
	// broadcaster closes, when the subscriber closes, or when ctx is done.
	Receive(ctx context.Context) <-chan Message[T]

	// Err returns the error the broadcaster terminated with, if any.
	Err() error

	Close() error
}

// Config holds environment-driven broadcaster settings.
type Config struct {
	BufferSize int `env:"BROADCAST_BUFFER_SIZE" envDefault:"100"`
}
