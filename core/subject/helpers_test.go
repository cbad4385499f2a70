package subject_test

import (
	"sync"

	"github.com/dmitrymomot/reactive/core/subject"
)

// recorder is a thread-safe observer that keeps everything it receives.
type recorder[T any] struct {
	mu        sync.Mutex
	values    []T
	errs      []error
	completed int
}

func (r *recorder[T]) OnNext(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder[T]) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder[T]) OnCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

func (r *recorder[T]) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func (r *recorder[T]) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

func (r *recorder[T]) Terminals() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed + len(r.errs)
}

// demandRecorder is a recorder that controls its own demand.
type demandRecorder[T any] struct {
	recorder[T]
	initial int64
	sub     subject.Subscription
}

func (d *demandRecorder[T]) OnSubscribe(s subject.Subscription) {
	d.sub = s
	if d.initial > 0 {
		s.Request(d.initial)
	}
}
