package wsstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/subject"
	"github.com/dmitrymomot/reactive/pkg/demand"
)

type dialConfig struct {
	dialer *websocket.Dialer
	header http.Header
	logger *slog.Logger
}

// DialOption configures Dial.
type DialOption func(*dialConfig)

func WithDialer(d *websocket.Dialer) DialOption {
	return func(c *dialConfig) {
		if d != nil {
			c.dialer = d
		}
	}
}

func WithDialHeader(h http.Header) DialOption {
	return func(c *dialConfig) {
		c.header = h
	}
}

func WithDialLogger(l *slog.Logger) DialOption {
	return func(c *dialConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// RemoteSubscription is the client side of a stream served by Handler.
// Request and Cancel are sent to the server as frames.
type RemoteSubscription[T any] struct {
	conn     *websocket.Conn
	observer subject.Observer[T]
	log      *slog.Logger

	writeMu   sync.Mutex
	requested atomic.Int64
	delivered atomic.Int64
	done      chan struct{}
}

var _ subject.Subscription = (*RemoteSubscription[int])(nil)

// Dial connects to url and forwards the remote stream to o.
// Observers implementing subject.SubscribeAware receive the subscription
// before any frame is read and start with zero demand; other observers
// request unbounded demand.
func Dial[T any](ctx context.Context, url string, o subject.Observer[T], opts ...DialOption) (*RemoteSubscription[T], error) {
	if o == nil {
		panic("wsstream: nil observer")
	}

	cfg := &dialConfig{
		dialer: websocket.DefaultDialer,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	conn, _, err := cfg.dialer.DialContext(ctx, url, cfg.header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDialFailed, err)
	}

	rs := &RemoteSubscription[T]{
		conn:     conn,
		observer: o,
		log:      cfg.logger,
		done:     make(chan struct{}),
	}

	if aware, ok := o.(subject.SubscribeAware); ok {
		aware.OnSubscribe(rs)
	} else {
		rs.Request(demand.Unbounded)
	}

	go rs.readLoop()

	return rs, nil
}

// Request asks the server for n more values.
func (rs *RemoteSubscription[T]) Request(n int64) {
	for {
		cur := rs.requested.Load()
		if cur == demand.Cancelled {
			return
		}
		if n < 0 {
			// The server answers negative demand with an error frame.
			break
		}
		if rs.requested.CompareAndSwap(cur, demand.Add(cur, n)) {
			break
		}
	}
	if n == 0 {
		return
	}
	if err := rs.send(Frame{Type: FrameRequest, N: n}); err != nil {
		rs.log.Debug("request frame not sent", logger.Error(err))
	}
}

// Cancel tells the server to stop and closes the connection. No further
// events reach the observer. Idempotent.
func (rs *RemoteSubscription[T]) Cancel() {
	if rs.requested.Swap(demand.Cancelled) == demand.Cancelled {
		return
	}
	_ = rs.send(Frame{Type: FrameCancel})
	rs.writeMu.Lock()
	_ = rs.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	rs.writeMu.Unlock()
	_ = rs.conn.Close()
}

func (rs *RemoteSubscription[T]) IsCancelled() bool {
	return rs.requested.Load() == demand.Cancelled
}

// Requested reports the demand granted and not yet satisfied.
func (rs *RemoteSubscription[T]) Requested() int64 {
	n := rs.requested.Load()
	if n == demand.Cancelled {
		return 0
	}
	return n
}

func (rs *RemoteSubscription[T]) Delivered() int64 {
	return rs.delivered.Load()
}

// Done is closed once the stream has ended for any reason.
func (rs *RemoteSubscription[T]) Done() <-chan struct{} {
	return rs.done
}

func (rs *RemoteSubscription[T]) send(f Frame) error {
	rs.writeMu.Lock()
	defer rs.writeMu.Unlock()
	return rs.conn.WriteJSON(f)
}

func (rs *RemoteSubscription[T]) readLoop() {
	defer close(rs.done)
	defer rs.conn.Close()

	for {
		var f Frame
		if err := rs.conn.ReadJSON(&f); err != nil {
			rs.fail(fmt.Errorf("%w: %w", ErrConnectionLost, err))
			return
		}

		switch f.Type {
		case FrameNext:
			var v T
			if err := json.Unmarshal(f.Data, &v); err != nil {
				rs.fail(fmt.Errorf("%w: %w", ErrDecode, err))
				return
			}
			if rs.IsCancelled() {
				return
			}
			rs.consume()
			rs.delivered.Add(1)
			rs.observer.OnNext(v)
		case FrameError:
			rs.fail(&RemoteError{Message: f.Error})
			return
		case FrameComplete:
			if rs.requested.Swap(demand.Cancelled) != demand.Cancelled {
				rs.observer.OnCompleted()
			}
			return
		default:
			rs.log.Debug("unknown frame ignored", slog.String("type", f.Type))
		}
	}
}

// fail delivers err unless the subscription was already cancelled or terminated.
func (rs *RemoteSubscription[T]) fail(err error) {
	if rs.requested.Swap(demand.Cancelled) == demand.Cancelled {
		return
	}
	if errors.Is(err, ErrDecode) {
		// The server keeps streaming otherwise.
		_ = rs.send(Frame{Type: FrameCancel})
	}
	rs.observer.OnError(err)
}

func (rs *RemoteSubscription[T]) consume() {
	for {
		cur := rs.requested.Load()
		if cur == demand.Cancelled || demand.IsUnbounded(cur) {
			return
		}
		if rs.requested.CompareAndSwap(cur, demand.Sub(cur, 1)) {
			return
		}
	}
}
