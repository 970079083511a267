// Package ratelimit provides request rate limiting with in-memory and
// Redis-backed implementations.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Standard errors.
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrLimiterClosed     = errors.New("limiter is closed")
)

// Limiter is the rate limiter interface.
type Limiter interface {
	// Allow reports whether a single request identified by key may proceed.
	Allow(ctx context.Context, key string) (bool, error)

	// AllowN reports whether n requests identified by key may proceed.
	AllowN(ctx context.Context, key string, n int) (bool, error)

	// Reset clears the limit state for a key.
	Reset(ctx context.Context, key string) error

	// Info returns the current limit state for a key.
	Info(ctx context.Context, key string) (*LimitInfo, error)

	// Close releases the limiter's resources.
	Close() error
}

// LimitInfo describes the current limit state for a key.
type LimitInfo struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Strategy names.
const (
	StrategySlidingWindow = "sliding_window"
	StrategyTokenBucket   = "token_bucket"
)

// Config configures a rate limiter.
type Config struct {
	// Requests allowed per Window.
	Requests int `koanf:"requests"`

	// Window is the measurement interval.
	Window time.Duration `koanf:"window"`

	// Strategy selects the limiting algorithm (sliding_window, token_bucket).
	Strategy string `koanf:"strategy"`

	// Backend selects the state store (memory, redis).
	Backend string `koanf:"backend"`

	// BurstSize is the extra token bucket headroom.
	BurstSize int `koanf:"burst_size"`

	// CleanupInterval is the in-memory stale bucket sweep interval.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// Redis connection settings.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// DefaultConfig returns the default limiter configuration.
func DefaultConfig() *Config {
	return &Config{
		Requests:        100,
		Window:          time.Minute,
		Strategy:        StrategySlidingWindow,
		Backend:         "memory",
		BurstSize:       10,
		CleanupInterval: 5 * time.Minute,
	}
}

// New creates a limiter from the configuration.
func New(cfg *Config) (Limiter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Backend {
	case "redis":
		return NewRedisLimiter(cfg)
	case "memory", "":
		return NewMemoryLimiter(cfg), nil
	default:
		return NewMemoryLimiter(cfg), nil
	}
}
