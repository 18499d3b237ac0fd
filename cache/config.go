package cache

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the cache store configuration. Fields can be populated from
// environment variables via FromEnv.
type Config struct {
	// Capacity is the maximum number of entries the store can hold.
	Capacity int `env:"CACHE_CAPACITY" envDefault:"10000"`

	// NumShards is the number of shards used for concurrent access.
	NumShards int `env:"CACHE_NUM_SHARDS" envDefault:"64"`

	// TTL is the maximum age of a cached entry. Tag-based invalidation is
	// the primary consistency mechanism; the TTL is the backstop for tags
	// that were never invalidated (e.g. a crash between a storage commit and
	// its invalidation dispatch).
	TTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// EvictionPercentage is the share of entries evicted when the store
	// reaches capacity, between 1 and 100.
	EvictionPercentage int `env:"CACHE_EVICTION_PERCENTAGE" envDefault:"10"`

	// EvictionInterval overrides how often expired entries are collected.
	// Zero keeps the backend default.
	EvictionInterval time.Duration `env:"CACHE_EVICTION_INTERVAL" envDefault:"0"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}
}

// FromEnv builds a Config from environment variables and validates it.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
