// Package config defines the service configuration and its koanf-based
// loader. Values are resolved from defaults, an optional yaml file and
// environment variables, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"`
	HTTP      HTTPConfig      `koanf:"http"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Tracing   TracingConfig   `koanf:"tracing"`
	Store     StoreConfig     `koanf:"store"`
	Cache     CacheConfig     `koanf:"cache"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Auth      AuthConfig      `koanf:"auth"`
	Traversal TraversalConfig `koanf:"traversal"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// HTTPConfig holds settings for the HTTP API server.
type HTTPConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Address returns host:port for the HTTP listener.
func (c HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // log file path when output=file
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // rotated files kept
	MaxAge     int    `koanf:"max_age"`     // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool    `koanf:"enabled"`
	Endpoint   string  `koanf:"endpoint"`
	SampleRate float64 `koanf:"sample_rate"`
}

// StoreConfig selects and configures the backend graph store.
type StoreConfig struct {
	// Driver is one of: memory, postgres, neo4j.
	Driver   string         `koanf:"driver"`
	Postgres PostgresConfig `koanf:"postgres"`
	Neo4j    Neo4jConfig    `koanf:"neo4j"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Database        string        `koanf:"database"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// Neo4jConfig holds Bolt connection settings.
type Neo4jConfig struct {
	URI            string `koanf:"uri"`
	Database       string `koanf:"database"`
	Username       string `koanf:"username"`
	Password       string `koanf:"password"`
	MaxConnections int    `koanf:"max_connections"`
}

// CacheConfig holds result-cache settings.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // memory, redis
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// Address returns host:port for the redis cache backend.
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitConfig holds request rate-limiting settings.
type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Backend  string        `koanf:"backend"` // memory, redis
}

// AuthConfig holds optional JWT bearer authentication settings.
type AuthConfig struct {
	Enabled   bool   `koanf:"enabled"`
	SecretKey string `koanf:"secret_key"`
	Issuer    string `koanf:"issuer"`
}

// TraversalConfig holds server-side ceilings and defaults for traversal
// queries. Request parameters are clamped against the ceilings so a single
// query cannot exhaust the backend.
type TraversalConfig struct {
	DefaultDegree   int64 `koanf:"default_degree"`
	DefaultCapacity int64 `koanf:"default_capacity"`
	MaxCapacity     int64 `koanf:"max_capacity"` // -1 disables the ceiling
	MaxLimit        int64 `koanf:"max_limit"`    // -1 disables the ceiling
}

// Validate checks cross-field consistency of the configuration.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be in (0, 65535], got %d", c.HTTP.Port)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	switch strings.ToLower(c.Store.Driver) {
	case "memory", "postgres", "neo4j":
	default:
		return fmt.Errorf("store.driver must be one of memory, postgres, neo4j, got %q", c.Store.Driver)
	}

	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case "memory", "redis":
		default:
			return fmt.Errorf("cache.driver must be memory or redis, got %q", c.Cache.Driver)
		}
	}

	if c.Auth.Enabled && c.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secret_key is required when auth is enabled")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			return fmt.Errorf("rate_limit.requests must be > 0, got %d", c.RateLimit.Requests)
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate_limit.window must be > 0, got %s", c.RateLimit.Window)
		}
	}

	if c.Traversal.DefaultDegree < -1 {
		return fmt.Errorf("traversal.default_degree must be >= -1, got %d", c.Traversal.DefaultDegree)
	}
	if c.Traversal.DefaultCapacity < -1 {
		return fmt.Errorf("traversal.default_capacity must be >= -1, got %d", c.Traversal.DefaultCapacity)
	}

	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
