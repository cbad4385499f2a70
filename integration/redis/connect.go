package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

// Connect creates a Redis client and waits until it answers PING.
// Attempts are spaced with exponential backoff starting at cfg.RetryInterval;
// the whole process is bounded by cfg.ConnectTimeout.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := parseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client := redis.NewClient(opts)

	attempts := max(cfg.RetryAttempts, 1)
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(max(cfg.RetryInterval, 1)))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	return client, nil
}

// Healthcheck returns a function that pings Redis.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

func parseURL(raw string) (*redis.Options, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(raw, "redis://") && !strings.HasPrefix(raw, "rediss://") {
		return nil, fmt.Errorf("%w: unsupported scheme", ErrFailedToParseRedisConnString)
	}
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}
	return opts, nil
}
