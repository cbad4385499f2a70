package wsstream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/reactive/core/logger"
)

// Config holds environment-driven server settings.
type Config struct {
	ReadBufferSize   int           `env:"WS_READ_BUFFER_SIZE" envDefault:"1024"`
	WriteBufferSize  int           `env:"WS_WRITE_BUFFER_SIZE" envDefault:"1024"`
	SendBufferSize   int           `env:"WS_SEND_BUFFER_SIZE" envDefault:"64"`
	WriteTimeout     time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"`
	HandshakeTimeout time.Duration `env:"WS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
}

const (
	defaultSendBuffer   = 64
	defaultWriteTimeout = 10 * time.Second
)

type wsConfig struct {
	upgrader       *websocket.Upgrader
	responseHeader http.Header
	sendBuffer     int
	writeTimeout   time.Duration
	logger         *slog.Logger
	onConnect      func(context.Context, *websocket.Conn) error
	onDisconnect   func(context.Context, *websocket.Conn)
	onError        func(context.Context, error)
}

// Option configures Handler.
type Option func(*wsConfig)

func WithReadBuffer(size int) Option {
	return func(c *wsConfig) {
		c.upgrader.ReadBufferSize = size
	}
}

func WithWriteBuffer(size int) Option {
	return func(c *wsConfig) {
		c.upgrader.WriteBufferSize = size
	}
}

func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(c *wsConfig) {
		c.upgrader.HandshakeTimeout = timeout
	}
}

func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

func WithAllowAnyOrigin() Option {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

func WithSubprotocols(protocols ...string) Option {
	return func(c *wsConfig) {
		c.upgrader.Subprotocols = protocols
	}
}

func WithUpgradeHeaders(header http.Header) Option {
	return func(c *wsConfig) {
		c.responseHeader = header
	}
}

// WithSendBuffer sets how many value frames may wait for the socket.
// Values granted by demand but arriving while the buffer is full are dropped.
func WithSendBuffer(size int) Option {
	return func(c *wsConfig) {
		if size > 0 {
			c.sendBuffer = size
		}
	}
}

// WithWriteTimeout bounds every frame write.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *wsConfig) {
		if timeout > 0 {
			c.writeTimeout = timeout
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *wsConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithOnConnect(fn func(context.Context, *websocket.Conn) error) Option {
	return func(c *wsConfig) {
		c.onConnect = fn
	}
}

func WithOnDisconnect(fn func(context.Context, *websocket.Conn)) Option {
	return func(c *wsConfig) {
		c.onDisconnect = fn
	}
}

func WithErrorHandler(fn func(context.Context, error)) Option {
	return func(c *wsConfig) {
		c.onError = fn
	}
}

// WithConfig applies cfg. Zero fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(c *wsConfig) {
		if cfg.ReadBufferSize > 0 {
			c.upgrader.ReadBufferSize = cfg.ReadBufferSize
		}
		if cfg.WriteBufferSize > 0 {
			c.upgrader.WriteBufferSize = cfg.WriteBufferSize
		}
		if cfg.HandshakeTimeout > 0 {
			c.upgrader.HandshakeTimeout = cfg.HandshakeTimeout
		}
		if cfg.SendBufferSize > 0 {
			c.sendBuffer = cfg.SendBufferSize
		}
		if cfg.WriteTimeout > 0 {
			c.writeTimeout = cfg.WriteTimeout
		}
	}
}

func newConfig(opts []Option) *wsConfig {
	cfg := &wsConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sendBuffer:   defaultSendBuffer,
		writeTimeout: defaultWriteTimeout,
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *wsConfig) reportError(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}
