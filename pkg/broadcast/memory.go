package broadcast

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/subject"
)

// DefaultBufferSize is the per-subscriber buffer used when none is configured.
const DefaultBufferSize = 100

// MemoryBroadcaster is an in-memory Broadcaster backed by a subject.
//
// Each subscriber grants demand equal to its free buffer space, so a slow
// subscriber drops messages instead of blocking the broadcast or other
// subscribers.
type MemoryBroadcaster[T any] struct {
	subj       *subject.Subject[Message[T]]
	bufferSize int
	logger     *slog.Logger

	// mu serializes upstream calls into the subject.
	mu     sync.Mutex
	closed atomic.Bool
}

var _ Broadcaster[any] = (*MemoryBroadcaster[any])(nil)

// Option configures a MemoryBroadcaster.
type Option func(*memoryOptions)

type memoryOptions struct {
	logger      *slog.Logger
	subjectOpts []subject.Option
}

// WithLogger sets the logger for the broadcaster and its subject.
func WithLogger(l *slog.Logger) Option {
	return func(o *memoryOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSubjectOptions passes options to the underlying subject.
func WithSubjectOptions(opts ...subject.Option) Option {
	return func(o *memoryOptions) {
		o.subjectOpts = append(o.subjectOpts, opts...)
	}
}

// NewMemoryBroadcaster creates a broadcaster with the given per-subscriber buffer size.
// Sizes below one fall back to DefaultBufferSize.
func NewMemoryBroadcaster[T any](bufferSize int, opts ...Option) *MemoryBroadcaster[T] {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}

	o := &memoryOptions{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	subjectOpts := append([]subject.Option{
		subject.WithName("broadcast"),
		subject.WithLogger(o.logger),
	}, o.subjectOpts...)

	return &MemoryBroadcaster[T]{
		subj:       subject.New[Message[T]](subjectOpts...),
		bufferSize: bufferSize,
		logger:     o.logger,
	}
}

// NewFromConfig creates a broadcaster from cfg.
func NewFromConfig[T any](cfg Config, opts ...Option) *MemoryBroadcaster[T] {
	return NewMemoryBroadcaster[T](cfg.BufferSize, opts...)
}

// Subscribe registers a new subscriber. The subscription is released when ctx
// is done or Close is called on the subscriber. Subscribing to a closed
// broadcaster returns a subscriber whose channel is already closed.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	s := &memorySubscriber[T]{
		ch:       make(chan Message[T], b.bufferSize),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		logger:   b.logger,
	}
	s.sub = b.subj.SubscribeWithDemand(s, int64(b.bufferSize))

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.done:
		case <-s.finished:
		}
	}()

	return s
}

// Broadcast delivers msg to every subscriber with free buffer space.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed.Load() {
		return ErrBroadcasterClosed
	}
	b.subj.OnNext(msg)
	return nil
}

// Fail terminates the broadcaster with err. Subscribers drain their buffers,
// then their channels close and Err reports err.
func (b *MemoryBroadcaster[T]) Fail(err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed.CompareAndSwap(false, true) {
		return ErrBroadcasterClosed
	}
	b.subj.OnError(err)
	b.logger.Info("broadcaster failed", logger.Component("broadcast"), logger.Error(err))
	return nil
}

// Close completes the broadcaster. It is safe to call more than once.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	b.subj.OnCompleted()
	b.logger.Info("broadcaster closed", logger.Component("broadcast"))
	return nil
}

// Subscribers returns the number of active subscribers.
func (b *MemoryBroadcaster[T]) Subscribers() int {
	return b.subj.ObserverCount()
}

type memorySubscriber[T any] struct {
	sub      subject.Subscription
	ch       chan Message[T]
	done     chan struct{} // closed by Close
	finished chan struct{} // closed by the terminal event
	logger   *slog.Logger

	// ch is closed by the subject's terminal event only; it runs on the
	// serialized upstream so no OnNext can race with it.
	termOnce  sync.Once
	closeOnce sync.Once
	recvOnce  sync.Once
	out       chan Message[T]
	err       atomic.Pointer[error]
}

func (s *memorySubscriber[T]) OnNext(msg Message[T]) {
	select {
	case s.ch <- msg:
	default:
		s.logger.Debug("message dropped, subscriber buffer full", logger.Component("broadcast"))
	}
}

func (s *memorySubscriber[T]) OnError(err error) {
	s.err.Store(&err)
	s.terminate()
}

func (s *memorySubscriber[T]) OnCompleted() {
	s.terminate()
}

func (s *memorySubscriber[T]) terminate() {
	s.termOnce.Do(func() {
		close(s.ch)
		close(s.finished)
	})
}

// Receive starts forwarding buffered messages to the returned channel. Every
// message taken from the buffer grants one unit of demand back to the
// broadcaster. Repeated calls return the same channel.
func (s *memorySubscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	s.recvOnce.Do(func() {
		s.out = make(chan Message[T])
		go s.pump(ctx)
	})
	return s.out
}

func (s *memorySubscriber[T]) pump(ctx context.Context) {
	defer close(s.out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case msg, ok := <-s.ch:
			if !ok {
				return
			}
			select {
			case s.out <- msg:
				s.sub.Request(1)
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}
	}
}

func (s *memorySubscriber[T]) Err() error {
	if p := s.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Close detaches the subscriber. A second call returns ErrSubscriberClosed.
func (s *memorySubscriber[T]) Close() error {
	err := ErrSubscriberClosed
	s.closeOnce.Do(func() {
		s.sub.Cancel()
		close(s.done)
		err = nil
	})
	return err
}
