package subject

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/pkg/demand"
)

// node links one observer to the broadcast state.
//
// requested doubles as the lifecycle flag: demand.Cancelled marks the node
// inert, and whoever swaps it in first owns the node's last transition. That
// makes terminal delivery once-only and keeps it from racing with Cancel.
type node[T any] struct {
	id     string
	parent *state[T]
	opts   *options

	// actual is cleared on cancel and on terminal delivery so the node does not
	// keep the observer alive once it is detached.
	actual atomic.Pointer[observerRef[T]]

	requested atomic.Int64
	delivered atomic.Int64
	dropped   atomic.Int64
}

type observerRef[T any] struct {
	o Observer[T]
}

type consumeResult uint8

const (
	granted consumeResult = iota
	starved
	inert
)

func newNode[T any](parent *state[T], o Observer[T], initial int64, opts *options) *node[T] {
	n := &node[T]{
		id:     uuid.NewString(),
		parent: parent,
		opts:   opts,
	}
	n.actual.Store(&observerRef[T]{o: o})
	n.requested.Store(max(initial, 0))
	return n
}

func (n *node[T]) Request(k int64) {
	if err := demand.Validate(k); err != nil {
		n.terminate(fmt.Errorf("%w: %w", ErrInvalidRequest, err))
		return
	}
	for {
		r := n.requested.Load()
		next := demand.Add(r, k)
		if next == r {
			return
		}
		if n.requested.CompareAndSwap(r, next) {
			return
		}
	}
}

func (n *node[T]) Cancel() {
	if n.requested.Swap(demand.Cancelled) == demand.Cancelled {
		return
	}
	n.parent.unsubscribe(n)
	n.actual.Store(nil)
}

func (n *node[T]) IsCancelled() bool {
	return n.requested.Load() == demand.Cancelled
}

// Requested returns the outstanding demand, or zero once the node is inert.
func (n *node[T]) Requested() int64 {
	r := n.requested.Load()
	if r == demand.Cancelled {
		return 0
	}
	return r
}

func (n *node[T]) Delivered() int64 {
	return n.delivered.Load()
}

// Dropped returns the number of values skipped for lack of demand.
func (n *node[T]) Dropped() int64 {
	return n.dropped.Load()
}

// ID returns the identifier used in log records.
func (n *node[T]) ID() string {
	return n.id
}

func (n *node[T]) consume() consumeResult {
	for {
		r := n.requested.Load()
		switch r {
		case demand.Cancelled:
			return inert
		case 0:
			return starved
		case demand.Unbounded:
			return granted
		}
		if n.requested.CompareAndSwap(r, r-1) {
			return granted
		}
	}
}

// deliver forwards v when the node has demand. It is only called from the
// emitting goroutine during fan-out.
func (n *node[T]) deliver(v T) {
	switch n.consume() {
	case inert:
		return
	case starved:
		n.overflow()
		return
	}

	ref := n.actual.Load()
	if ref == nil {
		return
	}
	n.delivered.Add(1)
	ref.o.OnNext(v)
}

func (n *node[T]) overflow() {
	dropped := n.dropped.Add(1)
	n.opts.logger.Debug("value dropped for lack of demand",
		logger.Subject(n.opts.name),
		logger.SubscriptionID(n.id),
		logger.Dropped(dropped),
	)

	if n.opts.overflow == OverflowError {
		n.terminate(ErrMissingBackpressure)
	}
}

// terminate delivers OnError(err), or OnCompleted when err is nil, unless the
// node is already inert. Terminal events ignore demand.
func (n *node[T]) terminate(err error) {
	if n.requested.Swap(demand.Cancelled) == demand.Cancelled {
		return
	}
	n.parent.unsubscribe(n)

	ref := n.actual.Swap(nil)
	if ref == nil {
		return
	}
	if err != nil {
		ref.o.OnError(err)
		return
	}
	ref.o.OnCompleted()
}
