package async

import "errors"

var (
	// ErrTimeout is returned when AwaitWithTimeout exceeds its duration.
	ErrTimeout = errors.New("future timed out")

	// ErrNoFutures is returned when WaitAny is called with no futures.
	ErrNoFutures = errors.New("no futures provided")

	// ErrNoValue is returned when a stream completes before producing the awaited value.
	ErrNoValue = errors.New("stream completed without a value")
)
