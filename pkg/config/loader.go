package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "PATHFINDER_"
	configEnvVar = "CONFIG_PATH"
)

// Loader resolves configuration from multiple sources.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/pathfinder/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithConfigPaths overrides the config file search paths.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// Load resolves the configuration with the following precedence:
//  1. defaults (lowest)
//  2. config file (yaml)
//  3. environment variables (highest)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// The config file is optional.
	if err := l.loadConfigFile(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Load resolves the configuration using a default Loader.
func Load() (*Config, error) {
	return NewLoader().Load()
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		// App
		"app.name":        "traversal-svc",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.debug":       false,

		// HTTP
		"http.host":             "",
		"http.port":             8080,
		"http.read_timeout":     30 * time.Second,
		"http.write_timeout":    30 * time.Second,
		"http.idle_timeout":     60 * time.Second,
		"http.shutdown_timeout": 10 * time.Second,

		// Log
		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		// Metrics
		"metrics.enabled":   true,
		"metrics.port":      9090,
		"metrics.path":      "/metrics",
		"metrics.namespace": "pathfinder",

		// Tracing
		"tracing.enabled":     false,
		"tracing.endpoint":    "localhost:4317",
		"tracing.sample_rate": 0.1,

		// Store
		"store.driver":                      "memory",
		"store.postgres.host":               "localhost",
		"store.postgres.port":               5432,
		"store.postgres.database":           "pathfinder",
		"store.postgres.username":           "postgres",
		"store.postgres.password":           "",
		"store.postgres.ssl_mode":           "disable",
		"store.postgres.max_open_conns":     25,
		"store.postgres.max_idle_conns":     5,
		"store.postgres.conn_max_lifetime":  5 * time.Minute,
		"store.postgres.conn_max_idle_time": 5 * time.Minute,
		"store.postgres.auto_migrate":       true,
		"store.neo4j.uri":                   "bolt://localhost:7687",
		"store.neo4j.database":              "",
		"store.neo4j.username":              "",
		"store.neo4j.password":              "",
		"store.neo4j.max_connections":       25,

		// Cache
		"cache.enabled":     false,
		"cache.driver":      "memory",
		"cache.host":        "localhost",
		"cache.port":        6379,
		"cache.db":          0,
		"cache.default_ttl": 5 * time.Minute,
		"cache.max_entries": 10000,

		// Rate limit
		"rate_limit.enabled":  false,
		"rate_limit.requests": 100,
		"rate_limit.window":   time.Minute,
		"rate_limit.backend":  "memory",

		// Auth
		"auth.enabled":    false,
		"auth.secret_key": "",
		"auth.issuer":     "pathfinder",

		// Traversal defaults and ceilings
		"traversal.default_degree":   int64(10000),
		"traversal.default_capacity": int64(10000000),
		"traversal.max_capacity":     int64(-1),
		"traversal.max_limit":        int64(-1),
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

// loadEnv maps environment variables onto config keys. Keys containing
// underscores in their names need an explicit mapping; everything else is
// translated by replacing underscores with dots.
func (l *Loader) loadEnv() error {
	return l.k.Load(env.ProviderWithValue(l.envPrefix, ".", func(envKey string, value string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))

		if mappedKey, ok := envKeyMappings[key]; ok {
			key = mappedKey
		} else {
			key = strings.ReplaceAll(key, "_", ".")
		}

		return key, value
	}), nil)
}

// envKeyMappings maps environment variable suffixes onto config keys whose
// names themselves contain underscores.
var envKeyMappings = map[string]string{
	// HTTP
	"http_host":             "http.host",
	"http_port":             "http.port",
	"http_read_timeout":     "http.read_timeout",
	"http_write_timeout":    "http.write_timeout",
	"http_idle_timeout":     "http.idle_timeout",
	"http_shutdown_timeout": "http.shutdown_timeout",

	// Log
	"log_level":       "log.level",
	"log_format":      "log.format",
	"log_output":      "log.output",
	"log_file_path":   "log.file_path",
	"log_max_size":    "log.max_size",
	"log_max_backups": "log.max_backups",
	"log_max_age":     "log.max_age",
	"log_compress":    "log.compress",

	// Metrics / tracing
	"metrics_enabled":     "metrics.enabled",
	"metrics_port":        "metrics.port",
	"metrics_path":        "metrics.path",
	"metrics_namespace":   "metrics.namespace",
	"tracing_enabled":     "tracing.enabled",
	"tracing_endpoint":    "tracing.endpoint",
	"tracing_sample_rate": "tracing.sample_rate",

	// Store
	"store_driver":                      "store.driver",
	"store_postgres_host":               "store.postgres.host",
	"store_postgres_port":               "store.postgres.port",
	"store_postgres_database":           "store.postgres.database",
	"store_postgres_username":           "store.postgres.username",
	"store_postgres_password":           "store.postgres.password",
	"store_postgres_ssl_mode":           "store.postgres.ssl_mode",
	"store_postgres_max_open_conns":     "store.postgres.max_open_conns",
	"store_postgres_max_idle_conns":     "store.postgres.max_idle_conns",
	"store_postgres_conn_max_lifetime":  "store.postgres.conn_max_lifetime",
	"store_postgres_conn_max_idle_time": "store.postgres.conn_max_idle_time",
	"store_postgres_auto_migrate":       "store.postgres.auto_migrate",
	"store_neo4j_uri":                   "store.neo4j.uri",
	"store_neo4j_database":              "store.neo4j.database",
	"store_neo4j_username":              "store.neo4j.username",
	"store_neo4j_password":              "store.neo4j.password",
	"store_neo4j_max_connections":       "store.neo4j.max_connections",

	// Cache
	"cache_enabled":     "cache.enabled",
	"cache_driver":      "cache.driver",
	"cache_host":        "cache.host",
	"cache_port":        "cache.port",
	"cache_password":    "cache.password",
	"cache_db":          "cache.db",
	"cache_default_ttl": "cache.default_ttl",
	"cache_max_entries": "cache.max_entries",

	// Rate limit
	"rate_limit_enabled":  "rate_limit.enabled",
	"rate_limit_requests": "rate_limit.requests",
	"rate_limit_window":   "rate_limit.window",
	"rate_limit_backend":  "rate_limit.backend",

	// Auth
	"auth_enabled":    "auth.enabled",
	"auth_secret_key": "auth.secret_key",
	"auth_issuer":     "auth.issuer",

	// Traversal
	"traversal_default_degree":   "traversal.default_degree",
	"traversal_default_capacity": "traversal.default_capacity",
	"traversal_max_capacity":     "traversal.max_capacity",
	"traversal_max_limit":        "traversal.max_limit",
}
