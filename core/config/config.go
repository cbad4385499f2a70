package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig wraps failures reported by the env parser.
var ErrParsingConfig = errors.New("failed to parse config from environment")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (value of the config type)
	loadMu     sync.Mutex
)

// Load populates cfg from environment variables. The first call loads a .env
// file from the working directory when one exists. Each config type is parsed
// once; later calls copy the cached value into cfg.
func Load[T any](cfg *T) error {
	loadDotenv()

	typ := reflect.TypeFor[T]()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return fmt.Errorf("%w: %w", ErrParsingConfig, err)
	}

	cache.Store(typ, parsed)
	*cfg = parsed
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

func loadDotenv() {
	dotenvOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			// A malformed .env must not be silently ignored.
			panic(fmt.Errorf("config: load .env: %w", err))
		}
	})
}
