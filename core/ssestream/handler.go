package ssestream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/subject"
)

// Handler serves src as Server-Sent Events. Each request subscribes with
// WithBuffer demand and asks for one more value after every flushed event,
// so a slow reader throttles its own subscription only.
//
// Values are encoded as JSON unless T is string or []byte. A terminal event
// is written as an "error" or "complete" event and ends the response.
func Handler[T any](src subject.Observable[T], opts ...Option[T]) http.HandlerFunc {
	cfg := newConfig(opts)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		if cfg.reconnect > 0 {
			fmt.Fprintf(w, "retry: %d\n", cfg.reconnect.Milliseconds())
		}
		if _, err := io.WriteString(w, ": connected\n\n"); err != nil {
			cfg.reportError(ctx, fmt.Errorf("failed to write connection message: %w", err))
			return
		}
		flusher.Flush()

		obs := newObserver[T](cfg.buffer)
		sub := src.Subscribe(obs)
		defer sub.Cancel()

		var keepAlive <-chan time.Time
		var ticker *time.Ticker
		if !cfg.noKeepAlive && cfg.keepAlive > 0 {
			ticker = time.NewTicker(cfg.keepAlive)
			defer ticker.Stop()
			keepAlive = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				return

			case <-keepAlive:
				if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
					cfg.reportError(ctx, fmt.Errorf("failed to send keepalive: %w", err))
					return
				}
				flusher.Flush()

			case v := <-obs.values:
				if ticker != nil {
					ticker.Reset(cfg.keepAlive)
				}
				if err := cfg.writeValue(w, v); err != nil {
					cfg.reportError(ctx, fmt.Errorf("failed to write event: %w", err))
				}
				flusher.Flush()
				sub.Request(1)

			case err := <-obs.terminal:
				for drained := false; !drained; {
					select {
					case v := <-obs.values:
						if err := cfg.writeValue(w, v); err != nil {
							cfg.reportError(ctx, fmt.Errorf("failed to write event: %w", err))
						}
					default:
						drained = true
					}
				}
				if err != nil {
					writeEvent(w, "error", "", err.Error())
				} else {
					writeEvent(w, "complete", "", "")
				}
				flusher.Flush()
				cfg.logger.DebugContext(ctx, "event stream terminated", logger.Error(err))
				return
			}
		}
	}
}

func (c *sseConfig[T]) writeValue(w io.Writer, v T) error {
	var data string
	switch d := any(v).(type) {
	case string:
		data = d
	case []byte:
		data = string(d)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		data = string(b)
	}

	var id string
	if c.idGen != nil {
		id = c.idGen(v)
	}
	return writeEvent(w, c.eventName, id, data)
}

func writeEvent(w io.Writer, name, id, data string) error {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "event: %s\n", name)
	}
	if id != "" {
		fmt.Fprintf(&b, "id: %s\n", id)
	}
	// Multi-line payloads need one data field per line.
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// observer hands values to the request goroutine without blocking the
// publisher. Demand never exceeds the buffer, so sends do not fail in
// practice; a full buffer drops the value.
type observer[T any] struct {
	buffer   int
	values   chan T
	terminal chan error
	once     sync.Once
}

func newObserver[T any](buffer int) *observer[T] {
	return &observer[T]{
		buffer:   buffer,
		values:   make(chan T, buffer),
		terminal: make(chan error, 1),
	}
}

func (o *observer[T]) OnSubscribe(s subject.Subscription) {
	s.Request(int64(o.buffer))
}

func (o *observer[T]) OnNext(v T) {
	select {
	case o.values <- v:
	default:
	}
}

func (o *observer[T]) OnError(err error) {
	o.once.Do(func() { o.terminal <- err })
}

func (o *observer[T]) OnCompleted() {
	o.once.Do(func() { o.terminal <- nil })
}
