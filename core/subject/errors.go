package subject

import (
	"errors"
	"fmt"
)

var (
	// ErrTerminated is reported when a subscription is attempted after a terminal event.
	// The late observer still receives the stored terminal event.
	ErrTerminated = errors.New("subject already terminated")

	// ErrMissingBackpressure is delivered to an observer that had no outstanding
	// demand when a value arrived and the subject uses OverflowError.
	ErrMissingBackpressure = errors.New("could not emit value due to lack of requests")

	// ErrInvalidRequest is delivered to an observer that requested a negative amount.
	ErrInvalidRequest = errors.New("request amount must not be negative")

	// ErrNilError replaces a nil error passed to OnError.
	ErrNilError = errors.New("OnError called with nil error")

	// ErrInvalidOverflow is returned for an unknown overflow strategy name.
	ErrInvalidOverflow = errors.New("invalid overflow strategy")
)

// PanicError carries the panics raised by observers while a terminal event was
// fanned out. Every observer still receives the terminal event before the
// PanicError is raised on the emitting goroutine.
type PanicError struct {
	Err error
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("observer panicked during terminal delivery: %v", e.Err)
}

func (e *PanicError) Unwrap() error {
	return e.Err
}

func panicToError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}
