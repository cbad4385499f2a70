package redis

import "errors"

// Domain-specific Redis errors for consistent error handling across the application.
// Use errors.Is() to check error types.
var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
	ErrSubscribeFailed              = errors.New("failed to subscribe to redis channel")
	ErrDecode                       = errors.New("failed to decode redis message")
	ErrEncode                       = errors.New("failed to encode value for redis")
	ErrPublishFailed                = errors.New("failed to publish to redis channel")
)
