// Package config loads heldkarp settings from a TOML file and HELDKARP_*
// environment variables.
//
// Precedence, lowest first: Default(), the file, the environment. The merged
// result is validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HELDKARP_"

// ErrInvalid is returned when the merged configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the complete heldkarp configuration.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// SolverConfig bounds solver runs.
type SolverConfig struct {
	// MaxCities is the admission ceiling passed to tsp.WithMaxCities.
	MaxCities int `toml:"max_cities" validate:"min=1,max=16"`
	// Workers bounds concurrent solves in batch mode.
	Workers int `toml:"workers" validate:"min=1,max=256"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend" validate:"oneof=none memory badger redis"`
	Path          string        `toml:"path" validate:"required_if=Backend badger"`
	TTL           time.Duration `toml:"ttl" validate:"gte=0"`
	RedisAddr     string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db" validate:"gte=0"`
	Prefix        string        `toml:"prefix"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr            string        `toml:"addr" validate:"required"`
	RateLimit       float64       `toml:"rate_limit" validate:"gte=0"` // requests/s; 0 disables
	Burst           int           `toml:"burst" validate:"min=1"`
	MaxBodyBytes    int64         `toml:"max_body_bytes" validate:"min=1"`
	ReadTimeout     time.Duration `toml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `toml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" validate:"gt=0"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json logfmt"`
}

// Default returns a configuration usable without any file.
func Default() Config {
	return Config{
		Solver: SolverConfig{MaxCities: 7, Workers: 4},
		Cache:  CacheConfig{Backend: "none", Prefix: "heldkarp"},
		Server: ServerConfig{
			Addr:            ":8080",
			RateLimit:       20,
			Burst:           40,
			MaxBodyBytes:    1 << 20,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

var validate = validator.New()

// Load merges Default(), the TOML file at path (skipped when path is empty)
// and the environment. Unknown keys in the file are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, undecoded[0].String(), path)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every field constraint.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// applyEnv overrides cfg from HELDKARP_* variables. Unlike a file, a
// malformed variable is an error rather than silently ignored.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var firstErr error
	fail := func(name, v string, err error) {
		if firstErr == nil {
			firstErr = fmt.Errorf("%w: %s%s=%q: %v", ErrInvalid, EnvPrefix, name, v, err)
		}
	}
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *int) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			fail(name, v, err)
			return
		}
		*dst = i
	}
	float := func(name string, dst *float64) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			fail(name, v, err)
			return
		}
		*dst = f
	}
	dur := func(name string, dst *time.Duration) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			fail(name, v, err)
			return
		}
		*dst = d
	}

	num("MAX_CITIES", &cfg.Solver.MaxCities)
	num("WORKERS", &cfg.Solver.Workers)

	str("CACHE_BACKEND", &cfg.Cache.Backend)
	str("CACHE_PATH", &cfg.Cache.Path)
	dur("CACHE_TTL", &cfg.Cache.TTL)
	str("REDIS_ADDR", &cfg.Cache.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Cache.RedisPassword)
	num("REDIS_DB", &cfg.Cache.RedisDB)

	str("ADDR", &cfg.Server.Addr)
	float("RATE_LIMIT", &cfg.Server.RateLimit)
	num("BURST", &cfg.Server.Burst)

	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	return firstErr
}
