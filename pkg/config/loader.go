// Package config loads typed configuration structs from the process
// environment. A .env file in the working directory is read once, if present.
//
// Every component owns its own Config struct with `env` tags; the entry point
// loads each of them with Load or MustLoad. Structs implementing Validator are
// checked right after parsing, so a weak JWT secret or an empty bot token
// stops the process at startup instead of at the first request.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Validator is implemented by config structs with cross-field rules
// that env tags cannot express.
type Validator interface {
	Validate() error
}

var (
	mu     sync.Mutex
	loaded = make(map[reflect.Type]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into v. Each config type is parsed once;
// later calls for the same type return the cached copy.
//
//	var cfg tribute.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvOnce.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := loaded[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	if val, ok := any(&parsed).(Validator); ok {
		if err := val.Validate(); err != nil {
			return errors.Join(ErrInvalidConfig, err)
		}
	}

	loaded[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reset drops every cached config. Tests use it between cases that change the environment.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	loaded = make(map[reflect.Type]any)
}
