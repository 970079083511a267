// Package cache provides a caching interface with in-memory and
// Redis-backed implementations, plus a traversal-result cache built on top.
package cache

import (
	"context"
	"errors"
	"time"

	"pathfinder/pkg/config"
)

// Backend types for cache implementations.
const (
	// BackendMemory specifies an in-memory cache backend.
	BackendMemory = "memory"
	// BackendRedis specifies a Redis cache backend.
	BackendRedis = "redis"
)

// Standard errors returned by cache operations.
var (
	// ErrKeyNotFound is returned when a requested key does not exist in the cache.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed is returned when an operation is attempted on a closed cache.
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache defines the operations shared by all cache implementations.
type Cache interface {
	// Get retrieves the value associated with the given key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value for the given key with a time-to-live. A ttl <= 0
	// falls back to the backend's default TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key-value pair from the cache. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error
	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)
	// Stats returns statistics about the cache.
	Stats(ctx context.Context) (*Stats, error)
	// Clear removes all keys from the cache.
	Clear(ctx context.Context) error
	// Close shuts down the cache and releases any underlying resources.
	Close() error
}

// Stats holds statistics about a cache's performance and state.
type Stats struct {
	TotalKeys int64   // Number of keys currently in the cache.
	Hits      int64   // Successful lookups.
	Misses    int64   // Failed lookups.
	HitRate   float64 // Ratio of hits to total lookups.
	Backend   string  // Backend name ("memory", "redis").
}

// Options contains configuration parameters for creating a Cache instance.
type Options struct {
	Backend    string        // BackendMemory or BackendRedis.
	DefaultTTL time.Duration // TTL applied when Set receives ttl <= 0.

	// Memory backend
	MaxEntries      int           // Entry cap; oldest expired entries are evicted first.
	CleanupInterval time.Duration // Background sweep interval for expired entries.

	// Redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      5 * time.Minute,
		MaxEntries:      100000,
		CleanupInterval: time.Minute,
		RedisAddr:       "localhost:6379",
		RedisDB:         0,
		RedisPoolSize:   10,
	}
}

// FromConfig builds Options from the service configuration.
func FromConfig(cfg *config.CacheConfig) *Options {
	return &Options{
		Backend:         cfg.Driver,
		DefaultTTL:      cfg.DefaultTTL,
		MaxEntries:      cfg.MaxEntries,
		CleanupInterval: time.Minute,
		RedisAddr:       cfg.Address(),
		RedisPassword:   cfg.Password,
		RedisDB:         cfg.DB,
		RedisPoolSize:   10,
	}
}

// New creates a cache from the given options.
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Backend {
	case BackendRedis:
		return NewRedisCache(opts)
	case BackendMemory, "":
		return NewMemoryCache(opts), nil
	default:
		return NewMemoryCache(opts), nil
	}
}

// MustNew creates a cache or panics.
func MustNew(opts *Options) Cache {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}
