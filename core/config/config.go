package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilTarget is returned when Load receives a nil pointer.
var ErrNilTarget = errors.New("config: nil target")

var (
	dotenvOnce sync.Once
	mu         sync.Mutex
	cache      = make(map[reflect.Type]any)
)

// Load fills cfg from the environment. The first call for a type parses the
// environment; later calls copy the cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilTarget
	}
	dotenvOnce.Do(func() {
		// A missing .env file is normal outside local development.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if v, ok := cache[key]; ok {
		*cfg = v.(T)
		return nil
	}

	var v T
	if err := env.Parse(&v); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}
	cache[key] = v
	*cfg = v
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops every cached configuration. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	clear(cache)
}
