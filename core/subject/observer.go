package subject

import "github.com/dmitrymomot/reactive/pkg/demand"

// Observer receives the events of an Observable.
// OnNext may be called any number of times, followed by at most one call to
// either OnError or OnCompleted.
type Observer[T any] interface {
	OnNext(v T)
	OnError(err error)
	OnCompleted()
}

// SubscribeAware is implemented by observers that want to control their own demand.
// OnSubscribe is called once, before the subscription is attached, and the
// subscription starts with zero demand. Observers that do not implement it
// start with unbounded demand.
type SubscribeAware interface {
	OnSubscribe(s Subscription)
}

// Subscription is the handle a downstream observer uses to signal demand and to detach.
type Subscription interface {
	// Request adds n to the outstanding demand. The sum saturates at demand.Unbounded.
	// Zero is a no-op; a negative n cancels the subscription and signals
	// OnError(ErrInvalidRequest).
	Request(n int64)

	// Cancel detaches the observer. No value is delivered after Cancel returns.
	// Cancel is idempotent.
	Cancel()

	// IsCancelled reports whether the subscription is inert, either because it
	// was cancelled or because a terminal event has been delivered.
	IsCancelled() bool

	// Requested returns the outstanding demand.
	Requested() int64

	// Delivered returns the number of values forwarded to the observer.
	Delivered() int64
}

// Observable accepts downstream observers.
type Observable[T any] interface {
	Subscribe(o Observer[T]) Subscription
}

// ObserverFuncs adapts plain functions to Observer and SubscribeAware.
// Nil functions are ignored. A nil Subscribe requests unbounded demand.
//
// Example:
//
//	sub := s.Subscribe(subject.ObserverFuncs[int]{
//		Next:      func(v int) { fmt.Println(v) },
//		Error:     func(err error) { log.Println(err) },
//		Completed: func() { fmt.Println("done") },
//	})
type ObserverFuncs[T any] struct {
	Subscribe func(Subscription)
	Next      func(T)
	Error     func(error)
	Completed func()
}

func (f ObserverFuncs[T]) OnSubscribe(s Subscription) {
	if f.Subscribe == nil {
		s.Request(demand.Unbounded)
		return
	}
	f.Subscribe(s)
}

func (f ObserverFuncs[T]) OnNext(v T) {
	if f.Next != nil {
		f.Next(v)
	}
}

func (f ObserverFuncs[T]) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

func (f ObserverFuncs[T]) OnCompleted() {
	if f.Completed != nil {
		f.Completed()
	}
}
