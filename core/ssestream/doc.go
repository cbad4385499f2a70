// Package ssestream serves a subject.Observable as Server-Sent Events.
//
//	mux.Handle("GET /events", ssestream.Handler(prices,
//		ssestream.WithEventName[Price]("price"),
//		ssestream.WithEventIDGenerator(func(p Price) string { return p.Symbol }),
//	))
//
// Browsers cannot signal demand over SSE, so the handler paces the
// subscription itself: it keeps WithBuffer values outstanding and requests one
// more after each event is flushed. The stream ends with an "error" event
// carrying the error message, or a "complete" event.
package ssestream
