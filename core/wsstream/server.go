package wsstream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/subject"
)

// Handler serves src over a websocket. Every connection subscribes to src
// with zero demand; the client grants demand with request frames and ends
// the stream with a cancel frame or by closing the socket.
func Handler[T any](src subject.Observable[T], opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		conn, err := cfg.upgrader.Upgrade(w, r, cfg.responseHeader)
		if err != nil {
			// Upgrade has already written the HTTP error response.
			cfg.reportError(ctx, err)
			return
		}
		defer conn.Close()

		if cfg.onConnect != nil {
			if err := cfg.onConnect(ctx, conn); err != nil {
				cfg.reportError(ctx, err)
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "connection rejected"),
					time.Now().Add(time.Second),
				)
				return
			}
		}

		s := newSession[T](conn, cfg)
		log := cfg.logger.With(logger.ConnectionID(s.id))
		log.DebugContext(ctx, "stream connection opened")

		if err := s.run(ctx, src); err != nil {
			log.WarnContext(ctx, "stream connection failed", logger.Error(err))
			cfg.reportError(ctx, err)
		}

		log.DebugContext(ctx, "stream connection closed",
			logger.Delivered(s.sent.Load()),
			logger.Dropped(s.dropped.Load()),
		)

		if cfg.onDisconnect != nil {
			cfg.onDisconnect(ctx, conn)
		}
	}
}

// session bridges one subscription to one websocket connection.
// The observer side never blocks: value frames go to a bounded buffer
// and the terminal frame to its own slot.
type session[T any] struct {
	id   string
	conn *websocket.Conn
	cfg  *wsConfig
	log  *slog.Logger

	out      chan Frame
	terminal chan Frame
	once     sync.Once

	sent    atomic.Int64
	dropped atomic.Int64
}

func newSession[T any](conn *websocket.Conn, cfg *wsConfig) *session[T] {
	id := uuid.NewString()
	return &session[T]{
		id:       id,
		conn:     conn,
		cfg:      cfg,
		log:      cfg.logger.With(logger.ConnectionID(id)),
		out:      make(chan Frame, cfg.sendBuffer),
		terminal: make(chan Frame, 1),
	}
}

// OnSubscribe keeps the initial demand at zero until the client asks.
func (s *session[T]) OnSubscribe(subject.Subscription) {}

func (s *session[T]) OnNext(v T) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("value not encodable, skipped", logger.Error(err))
		s.dropped.Add(1)
		return
	}
	select {
	case s.out <- Frame{Type: FrameNext, Data: data}:
	default:
		s.dropped.Add(1)
		s.log.Debug("send buffer full, value dropped")
	}
}

func (s *session[T]) OnError(err error) {
	s.finish(Frame{Type: FrameError, Error: err.Error()})
}

func (s *session[T]) OnCompleted() {
	s.finish(Frame{Type: FrameComplete})
}

func (s *session[T]) finish(f Frame) {
	s.once.Do(func() {
		s.terminal <- f
	})
}

func (s *session[T]) run(ctx context.Context, src subject.Observable[T]) error {
	g, ctx := errgroup.WithContext(ctx)

	sub := src.Subscribe(s)
	defer sub.Cancel()

	g.Go(func() error {
		return s.readLoop(sub)
	})
	g.Go(func() error {
		return s.writeLoop(ctx)
	})
	g.Go(func() error {
		// Unblocks the reader once either side is done.
		<-ctx.Done()
		_ = s.conn.Close()
		return nil
	})

	err := g.Wait()
	if isNormalEnd(err) {
		return nil
	}
	return err
}

func (s *session[T]) readLoop(sub subject.Subscription) error {
	for {
		var f Frame
		if err := s.conn.ReadJSON(&f); err != nil {
			return err
		}

		switch f.Type {
		case FrameRequest:
			s.log.Debug("demand requested", logger.Demand(f.N))
			// Negative demand terminates the subscription with an error frame.
			sub.Request(f.N)
		case FrameCancel:
			sub.Cancel()
			return errClientCancelled
		default:
			s.log.Debug("unknown frame ignored", slog.String("type", f.Type))
		}
	}
}

func (s *session[T]) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case f := <-s.out:
			if err := s.write(f); err != nil {
				return err
			}

		case f := <-s.terminal:
			// Values accepted before the terminal event go out first.
			for drained := false; !drained; {
				select {
				case v := <-s.out:
					if err := s.write(v); err != nil {
						return err
					}
				default:
					drained = true
				}
			}
			if err := s.write(f); err != nil {
				return err
			}
			_ = s.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.cfg.writeTimeout),
			)
			return errStreamTerminated
		}
	}
}

func (s *session[T]) write(f Frame) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.writeTimeout)); err != nil {
		return err
	}
	if err := s.conn.WriteJSON(f); err != nil {
		return err
	}
	if f.Type == FrameNext {
		s.sent.Add(1)
	}
	return nil
}

func isNormalEnd(err error) bool {
	return err == nil ||
		errors.Is(err, errStreamTerminated) ||
		errors.Is(err, errClientCancelled) ||
		errors.Is(err, context.Canceled) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
