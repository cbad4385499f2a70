package server

import "time"

const (
	// DefaultReadHeaderTimeout bounds reading request headers. Bodies and
	// upgraded stream connections are not limited.
	DefaultReadHeaderTimeout = 10 * time.Second

	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is how long open requests get to finish on shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)
