package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache    sync.Map // reflect.Type -> parsed config value
	loadEnv  sync.Once
	loadErr  error
	override func() error // test seam for .env loading
)

// Load parses environment variables into cfg and caches the result per type.
// Subsequent calls with the same type return the cached value, so two loads
// of the same Config struct always observe identical values.
// A .env file in the working directory is loaded once before the first parse;
// a missing file is not an error.
func Load(cfg any) error {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("config: target must be a non-nil pointer, got %T", cfg)
	}

	loadEnv.Do(func() {
		fn := override
		if fn == nil {
			fn = func() error {
				// Missing .env is the normal case in production.
				_ = godotenv.Load()
				return nil
			}
		}
		loadErr = fn()
	})
	if loadErr != nil {
		return fmt.Errorf("config: load .env: %w", loadErr)
	}

	t := rv.Elem().Type()
	if cached, ok := cache.Load(t); ok {
		rv.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", t, err)
	}

	cache.Store(t, rv.Elem().Interface())
	return nil
}

// MustLoad is Load that panics on failure. Intended for application startup
// where a missing required variable should abort the process.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
