// Package async bridges push-based streams and blocking callers.
//
// A Future settles once with a value or an error. First, Last and Collect
// subscribe to any subject.Observable and settle the future from the stream's
// events; each also watches a context and cancels its subscription when the
// context is done first.
//
// # Usage
//
//	prices := subject.New[float64]()
//
//	next := async.First(ctx, prices)
//	go feed(prices)
//
//	price, err := next.AwaitWithTimeout(time.Second)
//	if errors.Is(err, async.ErrTimeout) {
//		log.Println("no price yet")
//	}
//
// Collecting a finite stream:
//
//	all, err := async.Collect(ctx, prices).Await()
//
// # Coordination Utilities
//
// WaitAll waits for all futures and returns their values in order; WaitAny
// returns as soon as any future settles.
//
// # Error Handling
//
//   - ErrTimeout: returned when AwaitWithTimeout exceeds its duration
//   - ErrNoFutures: returned when WaitAny is called with no futures
//   - ErrNoValue: the stream completed before producing the awaited value
//
// Stream errors and context errors are returned unchanged.
package async
