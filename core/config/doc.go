// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use (when present) and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Every component in this module ships an env-tagged Config struct:
//
//	import (
//		"github.com/dmitrymomot/reactive/core/config"
//		"github.com/dmitrymomot/reactive/core/subject"
//	)
//
//	func main() {
//		var cfg subject.Config
//		config.MustLoad(&cfg)
//
//		prices, err := subject.NewFromConfig[float64](cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per process:
//
//	var cfg1 subject.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 subject.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently.
package config
