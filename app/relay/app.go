package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/reactive/core/config"
	"github.com/dmitrymomot/reactive/core/health"
	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/server"
	"github.com/dmitrymomot/reactive/core/subject"
	"github.com/dmitrymomot/reactive/core/wsstream"
	"github.com/dmitrymomot/reactive/integration/redis"
)

// App relays one Redis channel to websocket subscribers. Every message is
// published into a single subject; each websocket connection is an
// independent subscriber with its own demand.
type App struct {
	config Config
	logger *slog.Logger
	redis  *goredis.Client
	server *server.Server
	events *subject.Subject[json.RawMessage]
}

type AppOption func(*App) error

// NewApp loads Config from the environment unless WithConfig is given.
func NewApp(opts ...AppOption) (*App, error) {
	app := &App{}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == (Config{}) {
		if err := config.Load(&app.config); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = logger.New(
			logger.WithLevel(app.config.LogLevel),
			logger.WithAttrs(
				slog.String("app", app.config.AppName),
				slog.String("env", app.config.Env),
			),
		)
	}

	events, err := subject.NewFromConfig[json.RawMessage](
		app.config.Subject,
		subject.WithLogger(app.logger),
	)
	if err != nil {
		return nil, err
	}
	app.events = events

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}

	return app, nil
}

func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		return nil
	}
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

// WithRedis uses an existing client instead of connecting with Config.Redis.
// The caller keeps ownership of the client.
func WithRedis(client *goredis.Client) AppOption {
	return func(app *App) error {
		if client == nil {
			return errors.New("redis client cannot be nil")
		}
		app.redis = client
		return nil
	}
}

func WithServer(server *server.Server) AppOption {
	return func(app *App) error {
		if server == nil {
			return errors.New("server cannot be nil")
		}
		app.server = server
		return nil
	}
}

// Events is the subject every relayed message passes through.
func (a *App) Events() *subject.Subject[json.RawMessage] {
	return a.events
}

// Run connects to Redis if needed, then relays and serves until ctx is done
// or either side fails.
func (a *App) Run(ctx context.Context) error {
	if a.redis == nil {
		client, err := redis.Connect(ctx, a.config.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		a.redis = client
	}

	codec := redis.JSONCodec[json.RawMessage]{}

	g, ctx := errgroup.WithContext(ctx)

	if a.config.MirrorChannel != "" {
		mirror := redis.NewPublisher[json.RawMessage](ctx, a.redis, a.config.MirrorChannel, codec,
			redis.WithPublisherLogger(a.logger),
		)
		sub := a.events.Subscribe(mirror)
		g.Go(func() error {
			<-ctx.Done()
			sub.Cancel()
			return nil
		})
	}

	g.Go(func() error {
		err := redis.Listen[json.RawMessage](ctx, a.redis, a.config.Channel, a.events, codec,
			redis.WithRelayLogger(a.logger),
			redis.WithSkipInvalid(),
		)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(a.server.Runner(ctx, a.Handler()))

	return g.Wait()
}

// Handler routes the stream endpoint and health probes.
func (a *App) Handler() http.Handler {
	streamOpts := []wsstream.Option{
		wsstream.WithConfig(a.config.Stream),
		wsstream.WithLogger(a.logger),
	}
	if a.config.AllowAnyOrigin {
		streamOpts = append(streamOpts, wsstream.WithAllowAnyOrigin())
	}

	checks := []health.Check{health.Stream(a.events)}
	if a.redis != nil {
		checks = append(checks, redis.Healthcheck(a.redis))
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+a.config.StreamPath, wsstream.Handler[json.RawMessage](a.events, streamOpts...))
	mux.HandleFunc("GET /health/live", health.Liveness)
	mux.Handle("GET /health/ready", health.Readiness(a.logger, checks...))
	mux.HandleFunc("GET /ping", health.NoContent)

	return mux
}
