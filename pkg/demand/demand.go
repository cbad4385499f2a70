package demand

import (
	"errors"
	"fmt"
	"math"
)

const (
	// Unbounded is the demand sentinel meaning "no limit".
	Unbounded int64 = math.MaxInt64

	// Cancelled marks an inert subscription.
	Cancelled int64 = math.MinInt64
)

// ErrNegative is returned by Validate for requests below zero.
var ErrNegative = errors.New("demand: request must not be negative")

// Add returns current+n, saturating at Unbounded.
// A Cancelled current value stays Cancelled and non-positive n leaves current unchanged.
func Add(current, n int64) int64 {
	if current == Cancelled || n <= 0 {
		return current
	}
	if current == Unbounded || n == Unbounded {
		return Unbounded
	}
	if current > Unbounded-n {
		return Unbounded
	}
	return current + n
}

// Sub returns current-n for a bounded counter, clamped at zero.
// Unbounded and Cancelled are returned unchanged.
func Sub(current, n int64) int64 {
	if current == Unbounded || current == Cancelled || n <= 0 {
		return current
	}
	if n >= current {
		return 0
	}
	return current - n
}

// IsUnbounded reports whether n removes the delivery bound.
func IsUnbounded(n int64) bool {
	return n == Unbounded
}

// Validate checks a request amount coming from a consumer.
// Zero is valid and requests nothing.
func Validate(n int64) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrNegative, n)
	}
	return nil
}
