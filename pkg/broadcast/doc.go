// Package broadcast provides a generic pub/sub messaging system on top of the
// publish subject.
//
// Broadcasting never blocks on slow consumers: each subscriber owns a
// buffered channel and grants the broadcaster demand equal to its free buffer
// space. When a subscriber falls behind, messages are dropped for that
// subscriber only.
//
// # Usage
//
//	// Create a broadcaster with buffer size of 100 messages per subscriber
//	broadcaster := broadcast.NewMemoryBroadcaster[string](100)
//	defer broadcaster.Close()
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	subscriber := broadcaster.Subscribe(ctx)
//	defer subscriber.Close()
//
//	go func() {
//		for msg := range subscriber.Receive(ctx) {
//			fmt.Printf("Received: %s\n", msg.Data)
//		}
//	}()
//
//	broadcaster.Broadcast(ctx, broadcast.Message[string]{Data: "Hello, World!"})
//
// # Lifecycle
//
//   - Subscriptions are released when their context is cancelled or Close is called.
//   - Close completes the broadcaster: subscribers drain their buffers and their
//     channels close. Fail does the same and makes Subscriber.Err report the error.
//   - Subscribing after Close yields a subscriber whose channel is already closed.
//   - Broadcast after Close returns ErrBroadcasterClosed.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. Broadcast calls are
// serialized internally before they reach the subject.
package broadcast
