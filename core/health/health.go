package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/reactive/core/logger"
)

// ErrStreamTerminated is reported by Stream once the checked stream has ended.
var ErrStreamTerminated = errors.New("stream terminated")

// Check reports whether one dependency is usable.
type Check func(context.Context) error

// Liveness indicates the process is running. Always "ALIVE" with 200 OK.
func Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ALIVE")
}

// NoContent answers 204 without a body.
func NoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Readiness runs every check in order. It answers "READY" when all pass and
// 503 Service Unavailable at the first failure.
//
//	mux.Handle("GET /health/ready", health.Readiness(log,
//		redis.Healthcheck(client),
//		health.Stream(prices),
//	))
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	log = logger.OrDiscard(log)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Error(err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "READY")
	}
}

// Terminable is satisfied by *subject.Subject.
type Terminable interface {
	IsTerminated() bool
	Err() error
}

// Stream fails once s has received a terminal event. A stream that failed
// reports its error.
func Stream(s Terminable) Check {
	return func(context.Context) error {
		if !s.IsTerminated() {
			return nil
		}
		if err := s.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrStreamTerminated, err)
		}
		return ErrStreamTerminated
	}
}
