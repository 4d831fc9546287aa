package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the storefront client needs from the environment
// so main stays lean.
type Config struct {
	Addr string

	// APIBaseURL is the remote storefront REST API, e.g. http://localhost:8088/api/v1.
	APIBaseURL string

	// StateDir is where the file-backed key-value store keeps its records.
	// Ignored when RedisURL is set.
	StateDir string

	// RedisURL switches durable client state to Redis when non-empty.
	RedisURL string

	// ResolveTimeout bounds the startup session resolution (user-details fetch).
	ResolveTimeout time.Duration

	Redis RedisConfig
}

// RedisConfig tunes the optional Redis-backed state store.
type RedisConfig struct {
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables with development defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:           envOr("STOREFRONT_ADDR", ":8090"),
		APIBaseURL:     envOr("STOREFRONT_API_BASE_URL", "http://localhost:8088/api/v1"),
		StateDir:       envOr("STOREFRONT_STATE_DIR", ".storefront-state"),
		RedisURL:       os.Getenv("STOREFRONT_REDIS_URL"),
		ResolveTimeout: durationOr("STOREFRONT_RESOLVE_TIMEOUT", 5*time.Second),
		Redis: RedisConfig{
			PoolSize:     intOr("STOREFRONT_REDIS_POOL_SIZE", 10),
			MinIdleConns: intOr("STOREFRONT_REDIS_MIN_IDLE", 2),
			DialTimeout:  durationOr("STOREFRONT_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationOr("STOREFRONT_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationOr("STOREFRONT_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
