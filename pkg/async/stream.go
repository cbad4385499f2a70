package async

import (
	"context"

	"github.com/dmitrymomot/reactive/core/subject"
	"github.com/dmitrymomot/reactive/pkg/demand"
)

// First subscribes to src and resolves with the first value. It requests a
// single value and cancels the subscription once it arrives. The future fails
// with ErrNoValue if src completes first, with the stream error if src fails,
// or with ctx.Err() if ctx is done first.
func First[T any](ctx context.Context, src subject.Observable[T]) *Future[T] {
	f := newFuture[T]()
	o := &firstObserver[T]{f: f}
	watch(ctx, f, src.Subscribe(o))
	return f
}

// Last subscribes to src and resolves with the last value emitted before completion.
func Last[T any](ctx context.Context, src subject.Observable[T]) *Future[T] {
	f := newFuture[T]()
	o := &lastObserver[T]{f: f}
	watch(ctx, f, src.Subscribe(o))
	return f
}

// Collect subscribes to src and resolves with every value emitted before completion.
// A stream that completes without values resolves with an empty, non-nil slice.
func Collect[T any](ctx context.Context, src subject.Observable[T]) *Future[[]T] {
	f := newFuture[[]T]()
	o := &collectObserver[T]{f: f, values: []T{}}
	watch(ctx, f, src.Subscribe(o))
	return f
}

// watch cancels sub and fails f when ctx is done before f settles.
func watch[T any](ctx context.Context, f *Future[T], sub subject.Subscription) {
	if f.IsComplete() {
		return
	}
	go func() {
		select {
		case <-ctx.Done():
			sub.Cancel()
			f.fail(ctx.Err())
		case <-f.done:
		}
	}()
}

type firstObserver[T any] struct {
	f   *Future[T]
	sub subject.Subscription
}

func (o *firstObserver[T]) OnSubscribe(s subject.Subscription) {
	o.sub = s
	s.Request(1)
}

func (o *firstObserver[T]) OnNext(v T) {
	o.f.resolve(v, nil)
	o.sub.Cancel()
}

func (o *firstObserver[T]) OnError(err error) { o.f.fail(err) }
func (o *firstObserver[T]) OnCompleted()      { o.f.fail(ErrNoValue) }

type lastObserver[T any] struct {
	f    *Future[T]
	last T
	has  bool
}

func (o *lastObserver[T]) OnSubscribe(s subject.Subscription) {
	s.Request(demand.Unbounded)
}

func (o *lastObserver[T]) OnNext(v T) {
	o.last = v
	o.has = true
}

func (o *lastObserver[T]) OnError(err error) { o.f.fail(err) }

func (o *lastObserver[T]) OnCompleted() {
	if !o.has {
		o.f.fail(ErrNoValue)
		return
	}
	o.f.resolve(o.last, nil)
}

type collectObserver[T any] struct {
	f      *Future[[]T]
	values []T
}

func (o *collectObserver[T]) OnSubscribe(s subject.Subscription) {
	s.Request(demand.Unbounded)
}

func (o *collectObserver[T]) OnNext(v T) {
	o.values = append(o.values, v)
}

func (o *collectObserver[T]) OnError(err error) { o.f.fail(err) }

func (o *collectObserver[T]) OnCompleted() {
	o.f.resolve(o.values, nil)
}
