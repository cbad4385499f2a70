package async

import (
	"sync"
	"time"
)

// Future represents a value that becomes available once a stream settles.
type Future[T any] struct {
	val  T
	err  error
	once sync.Once
	done chan struct{}
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// resolve settles the future. Only the first call has an effect.
func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

func (f *Future[T]) fail(err error) {
	var zero T
	f.resolve(zero, err)
}

// Await blocks until the future settles.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.val, f.err
}

// AwaitWithTimeout waits at most timeout for the future to settle.
// It returns ErrTimeout when the deadline passes first; the future keeps running.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.val, f.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the future has settled without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// WaitAll waits for every future and returns their values in order.
// It returns the first error encountered, in argument order.
func WaitAll[T any](futures ...*Future[T]) ([]T, error) {
	results := make([]T, len(futures))
	for i, f := range futures {
		v, err := f.Await()
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// WaitAny returns the index and outcome of the first future to settle.
func WaitAny[T any](futures ...*Future[T]) (int, T, error) {
	if len(futures) == 0 {
		var zero T
		return -1, zero, ErrNoFutures
	}

	type result struct {
		index int
		val   T
		err   error
	}
	done := make(chan result, len(futures))

	for i, f := range futures {
		go func(index int, f *Future[T]) {
			v, err := f.Await()
			done <- result{index, v, err}
		}(i, f)
	}

	res := <-done
	return res.index, res.val, res.err
}
