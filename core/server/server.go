package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/reactive/core/logger"
)

// Server hosts stream endpoints with graceful shutdown.
//
// Shutdown cancels the context of every in-flight request, including
// upgraded websocket connections that http.Server does not track, so stream
// handlers unsubscribe and return before the shutdown timeout expires.
type Server struct {
	mu      sync.Mutex
	running bool
	bound   net.Addr
	ready   chan struct{}

	addr              string
	logger            *slog.Logger
	shutdown          time.Duration
	readHeaderTimeout time.Duration
	idleTimeout       time.Duration
	maxHeaderBytes    int
	tlsConfig         *tls.Config
}

// New creates a Server listening on addr. Defaults to a 30-second graceful
// shutdown timeout and a discarding logger.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:              addr,
		ready:             make(chan struct{}),
		logger:            logger.Discard(),
		shutdown:          DefaultShutdownTimeout,
		readHeaderTimeout: DefaultReadHeaderTimeout,
		idleTimeout:       DefaultIdleTimeout,
		maxHeaderBytes:    DefaultMaxHeaderBytes,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run serves handler until ctx is cancelled, then shuts down gracefully.
// A cancelled context is a clean stop and returns nil. When the listener
// cannot be bound, Run may be called again.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrListen, err)
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	base, cancelBase := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelBase()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.readHeaderTimeout,
		IdleTimeout:       s.idleTimeout,
		MaxHeaderBytes:    s.maxHeaderBytes,
		BaseContext: func(net.Listener) context.Context {
			return base
		},
	}

	s.mu.Lock()
	s.bound = ln.Addr()
	close(s.ready)
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "starting server", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server gracefully", logger.Duration(s.shutdown))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()

	cancelBase()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown error", logger.Error(err))
		return fmt.Errorf("%w: %w", ErrShutdown, err)
	}
	<-errCh

	s.logger.Info("server shutdown complete")
	return nil
}

// Runner adapts Run for errgroup.Group.Go.
func (s *Server) Runner(ctx context.Context, handler http.Handler) func() error {
	return func() error {
		return s.Run(ctx, handler)
	}
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or the configured one before Run binds.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound != nil {
		return s.bound.String()
	}
	return s.addr
}
