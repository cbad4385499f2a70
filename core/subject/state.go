package subject

import (
	"errors"
	"slices"
	"sync/atomic"

	"github.com/dmitrymomot/reactive/core/logger"
)

type phase uint8

const (
	phaseEmpty phase = iota
	phaseActive
	phaseTerminated
)

func (p phase) String() string {
	switch p {
	case phaseEmpty:
		return "empty"
	case phaseActive:
		return "active"
	default:
		return "terminated"
	}
}

// snapshot is never mutated after it is published.
type snapshot[T any] struct {
	phase phase
	nodes []*node[T]
	err   error // terminal reason; nil means completed
}

// state holds the active observer set behind a single atomic pointer.
// Every change builds a new snapshot and installs it with compare-and-swap.
type state[T any] struct {
	current atomic.Pointer[snapshot[T]]
	empty   *snapshot[T]
	opts    *options
}

func newState[T any](opts *options) *state[T] {
	s := &state[T]{
		empty: &snapshot[T]{phase: phaseEmpty},
		opts:  opts,
	}
	s.current.Store(s.empty)
	return s
}

// trySubscribe installs n. After termination it replays the stored terminal
// event to n instead and returns ErrTerminated.
func (s *state[T]) trySubscribe(n *node[T]) error {
	for {
		cur := s.current.Load()
		if cur.phase == phaseTerminated {
			n.terminate(cur.err)
			return ErrTerminated
		}

		nodes := make([]*node[T], len(cur.nodes), len(cur.nodes)+1)
		copy(nodes, cur.nodes)
		nodes = append(nodes, n)

		if s.current.CompareAndSwap(cur, &snapshot[T]{phase: phaseActive, nodes: nodes}) {
			return nil
		}
	}
}

func (s *state[T]) unsubscribe(n *node[T]) {
	for {
		cur := s.current.Load()
		if cur.phase != phaseActive {
			return
		}
		idx := slices.Index(cur.nodes, n)
		if idx < 0 {
			return
		}

		next := s.empty
		if len(cur.nodes) > 1 {
			nodes := make([]*node[T], 0, len(cur.nodes)-1)
			nodes = append(nodes, cur.nodes[:idx]...)
			nodes = append(nodes, cur.nodes[idx+1:]...)
			next = &snapshot[T]{phase: phaseActive, nodes: nodes}
		}

		if s.current.CompareAndSwap(cur, next) {
			return
		}
	}
}

// emitNext fans v out to the snapshot loaded once at entry. Observers attached
// or removed during the fan-out do not change this emission's delivery set.
func (s *state[T]) emitNext(v T) {
	cur := s.current.Load()
	if cur.phase == phaseTerminated {
		return
	}
	for _, n := range cur.nodes {
		n.deliver(v)
	}
}

// emitTerminal moves the state to terminated and reports whether this call won.
// Only the winner delivers, so every node sees at most one terminal event.
func (s *state[T]) emitTerminal(err error) bool {
	for {
		cur := s.current.Load()
		if cur.phase == phaseTerminated {
			return false
		}
		if s.current.CompareAndSwap(cur, &snapshot[T]{phase: phaseTerminated, err: err}) {
			s.fanOutTerminal(cur.nodes, err)
			return true
		}
	}
}

func (s *state[T]) fanOutTerminal(nodes []*node[T], err error) {
	var panics []error
	for _, n := range nodes {
		if p := s.terminateNode(n, err); p != nil {
			panics = append(panics, p)
		}
	}
	if len(panics) > 0 {
		panic(&PanicError{Err: errors.Join(panics...)})
	}
}

func (s *state[T]) terminateNode(n *node[T], err error) (perr error) {
	defer func() {
		if r := recover(); r != nil {
			s.opts.logger.Error("observer panicked during terminal delivery",
				logger.Subject(s.opts.name),
				logger.SubscriptionID(n.id),
				logger.Panic(r),
			)
			perr = panicToError(r)
		}
	}()
	n.terminate(err)
	return nil
}

func (s *state[T]) terminal() (bool, error) {
	cur := s.current.Load()
	return cur.phase == phaseTerminated, cur.err
}

func (s *state[T]) size() int {
	return len(s.current.Load().nodes)
}

func (s *state[T]) hasObservers() bool {
	cur := s.current.Load()
	return cur.phase == phaseActive && len(cur.nodes) > 0
}
