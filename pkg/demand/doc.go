// Package demand implements the saturating arithmetic behind reactive demand
// signaling.
//
// Demand is an int64 counter owned by a single subscription. Requests add to it,
// deliveries subtract from it. Two values are reserved:
//
//   - Unbounded (math.MaxInt64): the consumer accepts any number of values.
//     Once reached, the counter never decreases.
//   - Cancelled (math.MinInt64): the subscription is inert. No arithmetic
//     moves a counter out of this state.
//
// Basic usage:
//
//	requested := demand.Add(current, n)
//	if requested == demand.Unbounded {
//		// stop counting deliveries
//	}
package demand
