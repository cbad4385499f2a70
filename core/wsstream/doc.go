// Package wsstream streams a subject.Observable over a websocket with the
// consumer in control of demand.
//
// The server side is an http.HandlerFunc. Each connection subscribes to the
// source with zero demand and sends values only after the client grants
// demand:
//
//	prices := subject.New[Price]()
//	mux.Handle("/prices", wsstream.Handler[Price](prices,
//		wsstream.WithAllowAnyOrigin(),
//		wsstream.WithLogger(log),
//	))
//
// The client side mirrors a local subscription:
//
//	sub, err := wsstream.Dial[Price](ctx, "ws://localhost:8080/prices", observer)
//	if err != nil {
//		return err
//	}
//	sub.Request(10)
//	defer sub.Cancel()
//
// Every message is a JSON Frame. Clients send "request" and "cancel";
// servers send "next", "error" and "complete". A terminal frame is followed by
// a normal close. Negative demand ends the stream with an error frame.
//
// Values the client asked for are buffered per connection (WithSendBuffer).
// A client that requests more than it reads loses the overflow instead of
// stalling the publisher.
package wsstream
