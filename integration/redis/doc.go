// Package redis connects publish subjects to Redis pub/sub.
//
// It covers both directions of the bridge:
//
//   - Listen subscribes to a Redis channel and feeds decoded payloads into any
//     subject.Observer, typically a *subject.Subject, acting as its single upstream.
//   - Publisher is a subject.Observer that republishes every value it receives
//     to a Redis channel.
//
// Connect and Healthcheck wrap the go-redis client with connection
// verification and exponential retry.
//
// # Configuration
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
//
// # Usage Example
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Remote orders flow into a local subject.
//	orders := subject.New[Order]()
//	go redis.Listen(ctx, client, "orders", orders, redis.JSONCodec[Order]{})
//
//	// Local prices are mirrored to Redis.
//	prices := subject.New[Price]()
//	prices.Subscribe(redis.NewPublisher(ctx, client, "prices", redis.JSONCodec[Price]{}))
//
// # Termination
//
// When the Redis subscription channel closes, Listen completes the sink (use
// WithoutCompletion to keep it open). An undecodable payload terminates the
// sink with ErrDecode unless WithSkipInvalid is set. Context cancellation
// stops the relay without terminating the sink.
//
// # Error Handling
//
//   - ErrFailedToParseRedisConnString, ErrEmptyConnectionURL: invalid configuration
//   - ErrRedisNotReady: Redis did not answer PING within the retry budget
//   - ErrHealthcheckFailed: health check ping failed
//   - ErrSubscribeFailed: the channel subscription was not confirmed
//   - ErrDecode, ErrEncode, ErrPublishFailed: payload and publish failures
package redis
