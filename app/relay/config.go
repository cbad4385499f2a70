package relay

import (
	"github.com/dmitrymomot/reactive/core/server"
	"github.com/dmitrymomot/reactive/core/subject"
	"github.com/dmitrymomot/reactive/core/wsstream"
	"github.com/dmitrymomot/reactive/integration/redis"
)

type Config struct {
	Redis   redis.Config
	Server  server.Config
	Subject subject.Config
	Stream  wsstream.Config

	AppName  string `env:"APP_NAME" envDefault:"reactive-relay"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Channel is the Redis channel whose messages are streamed to clients.
	Channel        string `env:"RELAY_CHANNEL" envDefault:"events"`
	MirrorChannel  string `env:"RELAY_MIRROR_CHANNEL"`
	StreamPath     string `env:"RELAY_STREAM_PATH" envDefault:"/stream"`
	AllowAnyOrigin bool   `env:"RELAY_ALLOW_ANY_ORIGIN" envDefault:"false"`
}
