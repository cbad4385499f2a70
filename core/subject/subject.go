package subject

import (
	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/pkg/demand"
)

// Subject is a hot, multicast conduit. It is an Observer for exactly one
// upstream producer and an Observable for any number of downstream observers.
// Observers receive only the values emitted after they attach; nothing is
// buffered or replayed except the terminal event.
//
// OnNext, OnError and OnCompleted must be called in a serialized fashion by the
// upstream. Subscribe, Request and Cancel may be called from any goroutine.
// No method blocks and the subject starts no goroutines: every delivery runs on
// the caller's goroutine.
//
// Example:
//
//	s := subject.New[int]()
//	sub := s.SubscribeFunc(func(v int) { fmt.Println(v) })
//	defer sub.Cancel()
//
//	s.OnNext(1)
//	s.OnNext(2)
//	s.OnCompleted()
type Subject[T any] struct {
	state *state[T]
	opts  *options
}

var (
	_ Observer[any]   = (*Subject[any])(nil)
	_ Observable[any] = (*Subject[any])(nil)
)

// New creates a subject with no observers.
func New[T any](opts ...Option) *Subject[T] {
	o := newOptions(opts)
	return &Subject[T]{
		state: newState[T](o),
		opts:  o,
	}
}

// OnNext delivers v to every observer attached at the time of the call that has
// outstanding demand. It is a no-op after a terminal event.
func (s *Subject[T]) OnNext(v T) {
	s.state.emitNext(v)
}

// OnError terminates the subject with err. Current observers receive
// OnError(err); later observers receive it on Subscribe. Only the first
// terminal event takes effect. A nil err is replaced by ErrNilError.
func (s *Subject[T]) OnError(err error) {
	if err == nil {
		err = ErrNilError
	}
	s.terminate(err)
}

// OnCompleted terminates the subject normally. Only the first terminal event takes effect.
func (s *Subject[T]) OnCompleted() {
	s.terminate(nil)
}

func (s *Subject[T]) terminate(err error) {
	observers := s.state.size()
	if !s.state.emitTerminal(err) {
		s.opts.logger.Debug("terminal event ignored, subject already terminated",
			logger.Subject(s.opts.name),
			logger.Error(err),
		)
		return
	}
	s.opts.logger.Debug("subject terminated",
		logger.Subject(s.opts.name),
		logger.Observers(observers),
		logger.Error(err),
	)
}

// Subscribe attaches o and returns its subscription handle.
// Observers implementing SubscribeAware start with zero demand and receive the
// handle through OnSubscribe before they are attached; all others start with
// unbounded demand. After termination o receives the terminal event
// synchronously and the returned subscription is already cancelled.
func (s *Subject[T]) Subscribe(o Observer[T]) Subscription {
	initial := demand.Unbounded
	if _, ok := o.(SubscribeAware); ok {
		initial = 0
	}
	return s.subscribe(o, initial)
}

// SubscribeWithDemand attaches o with n outstanding demand. Negative n is treated as zero.
// SubscribeAware observers still receive OnSubscribe and may request more.
func (s *Subject[T]) SubscribeWithDemand(o Observer[T], n int64) Subscription {
	return s.subscribe(o, n)
}

// SubscribeFunc attaches a function receiving every value with unbounded demand.
// Terminal events are discarded.
func (s *Subject[T]) SubscribeFunc(next func(T)) Subscription {
	return s.subscribe(ObserverFuncs[T]{Next: next}, demand.Unbounded)
}

func (s *Subject[T]) subscribe(o Observer[T], initial int64) Subscription {
	if o == nil {
		panic("subject: nil observer")
	}

	n := newNode(s.state, o, initial, s.opts)
	if aware, ok := o.(SubscribeAware); ok {
		aware.OnSubscribe(n)
	}
	if n.IsCancelled() {
		return n
	}

	if err := s.state.trySubscribe(n); err != nil {
		s.opts.logger.Debug("late subscriber received terminal event",
			logger.Subject(s.opts.name),
			logger.SubscriptionID(n.id),
		)
		return n
	}

	// Cancel may have raced with the install above.
	if n.IsCancelled() {
		s.state.unsubscribe(n)
	}
	return n
}

// HasObservers reports whether at least one observer is attached.
func (s *Subject[T]) HasObservers() bool {
	return s.state.hasObservers()
}

// ObserverCount returns the number of attached observers.
func (s *Subject[T]) ObserverCount() int {
	return s.state.size()
}

// HasError reports whether the subject terminated with an error.
func (s *Subject[T]) HasError() bool {
	done, err := s.state.terminal()
	return done && err != nil
}

// HasCompleted reports whether the subject completed normally.
func (s *Subject[T]) HasCompleted() bool {
	done, err := s.state.terminal()
	return done && err == nil
}

// IsTerminated reports whether any terminal event has been received.
func (s *Subject[T]) IsTerminated() bool {
	done, _ := s.state.terminal()
	return done
}

// Err returns the terminal error, or nil when the subject is still active or completed normally.
func (s *Subject[T]) Err() error {
	_, err := s.state.terminal()
	return err
}
