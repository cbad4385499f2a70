// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: process is running (no dependency checks)
//   - Readiness: all checks pass
//   - NoContent: 204 for minimal overhead
//
// Usage:
//
//	mux.HandleFunc("GET /health/live", health.Liveness)
//	mux.Handle("GET /health/ready", health.Readiness(log,
//		redis.Healthcheck(client),
//		health.Stream(prices),
//	))
//	mux.HandleFunc("GET /ping", health.NoContent)
//
// Checks follow the func(context.Context) error signature, so any
// dependency ping can be passed directly.
package health
