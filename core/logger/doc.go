// Package logger provides structured logging helpers built on Go's standard slog package.
//
// Every component in this module accepts a *slog.Logger through a functional
// option and defaults to Discard, so nothing is written unless the caller opts in.
// The attribute helpers return an empty slog.Attr for empty inputs, which slog
// omits from the output:
//
//	log.Debug("value dropped",
//		logger.Subject("prices"),
//		logger.SubscriptionID(id),
//		logger.Demand(0),
//		logger.Error(err), // omitted when err is nil
//	)
//
// # Stream Attributes
//
//   - Subject, SubscriptionID, ConnectionID, Channel: identify the stream endpoint
//   - Demand, Delivered, Dropped, Observers: flow-control counters; Demand renders
//     the unbounded sentinel as "unbounded"
//
// # Generic Attributes
//
//   - Error, Errors, Panic: failure reporting with nil safety
//   - Component, Event, Count, RetryCount, Duration, Group
package logger
