package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// This allows calls like log.Info("msg", logger.Error(err)) without explicit nil checks.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Errors groups multiple non-nil errors under the key "errors".
// Uses index-based keys to preserve error order. Returns empty Attr for all nil errors.
func Errors(errs ...error) slog.Attr {
	count := 0
	for _, err := range errs {
		if err != nil {
			count++
		}
	}
	if count == 0 {
		return slog.Attr{}
	}

	as := make([]slog.Attr, 0, count)
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// Returns empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Panic creates an attribute for a recovered panic value.
func Panic(v any) slog.Attr {
	if v == nil {
		return slog.Attr{}
	}
	return slog.Any("panic", v)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// ============================================================================
// Streams and Subscriptions
// ============================================================================

// Subject creates an attribute naming a subject instance.
func Subject(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("subject", name)
}

// SubscriptionID creates an attribute for a subscription identifier.
func SubscriptionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("subscription_id", id)
}

// ConnectionID creates an attribute for a transport connection identifier.
func ConnectionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("connection_id", id)
}

// Channel creates an attribute for a pub/sub channel name.
func Channel(name string) slog.Attr {
	return slog.String("channel", name)
}

// Demand creates an attribute for outstanding or requested demand.
// The unbounded sentinel is rendered as "unbounded".
func Demand(n int64) slog.Attr {
	if n == 1<<63-1 {
		return slog.String("demand", "unbounded")
	}
	return slog.Int64("demand", n)
}

// Delivered creates an attribute for the number of delivered values.
func Delivered(n int64) slog.Attr {
	return slog.Int64("delivered", n)
}

// Dropped creates an attribute for the number of values skipped for lack of demand.
func Dropped(n int64) slog.Attr {
	return slog.Int64("dropped", n)
}

// Observers creates an attribute for the number of attached observers.
func Observers(n int) slog.Attr {
	return slog.Int("observers", n)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an attribute for event names.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// RetryCount creates an attribute for retry attempts.
func RetryCount(count int) slog.Attr {
	return slog.Int("retry_count", count)
}
