// Package subject implements a hot, multicast, replay-less publish subject with
// per-observer demand signaling.
//
// A Subject sits between a single upstream producer and any number of
// downstream observers. Values passed to OnNext are fanned out synchronously to
// every observer attached at that moment. Late observers see only later values,
// except for the terminal event: an observer attaching after OnError or
// OnCompleted receives that event immediately.
//
// # Usage
//
//	s := subject.New[string](subject.WithName("chat"), subject.WithLogger(log))
//
//	sub := s.Subscribe(subject.ObserverFuncs[string]{
//		Next:      func(msg string) { fmt.Println(msg) },
//		Completed: func() { fmt.Println("closed") },
//	})
//	defer sub.Cancel()
//
//	s.OnNext("hello")
//	s.OnCompleted()
//
// # Demand
//
// Each subscription carries an outstanding-demand counter. A value is forwarded
// only while the counter is positive; every delivery decrements it, and
// Request adds to it, saturating at demand.Unbounded. Unbounded demand is never
// decremented.
//
// A value that reaches an observer with zero demand is not queued. With the
// default OverflowDrop it is skipped for that observer; with OverflowError the
// observer is cancelled and receives ErrMissingBackpressure. Terminal events
// are always delivered regardless of demand.
//
// Observers implementing SubscribeAware start with zero demand and request what
// they want from OnSubscribe:
//
//	type pager struct{ sub subject.Subscription }
//
//	func (p *pager) OnSubscribe(s subject.Subscription) { p.sub = s; s.Request(10) }
//	func (p *pager) OnNext(v int)                       { /* ... */ }
//	func (p *pager) OnError(err error)                  {}
//	func (p *pager) OnCompleted()                       {}
//
// # Concurrency
//
// The observer set is an immutable snapshot swapped with compare-and-swap, so
// subscribing, cancelling and emitting never take a lock. Each emission
// iterates the snapshot it loaded first; concurrent subscribe and cancel calls
// affect only later emissions.
//
// The upstream must call OnNext, OnError and OnCompleted serially. Subscribe,
// Request and Cancel are safe from any goroutine. Once Cancel returns no value
// is delivered, except for at most one delivery already in progress on the
// emitting goroutine.
//
// At most one terminal event is delivered to any observer. Terminal calls
// after the first are ignored. A panic raised by an observer's OnNext
// propagates to the OnNext caller; panics raised while delivering a terminal
// event are collected, delivery continues for the remaining observers, and
// the panics are re-raised as a single *PanicError.
package subject
