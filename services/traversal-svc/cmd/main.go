// Package main is the entry point for the traversal-svc microservice.
//
// traversal-svc computes single-source weighted shortest paths over a graph
// stored in an external backend (in-memory, PostgreSQL or Neo4j). It exposes
// two query shapes over a JSON HTTP API: source-to-many and
// source-to-one-target.
//
// # Service Overview
//
// The traversal service exposes the following endpoints:
//   - POST /api/v1/shortest-paths  - shortest path to every reachable vertex
//   - POST /api/v1/shortest-path   - shortest path to a single target
//   - GET  /healthz                - liveness probe
//   - GET  /readyz                 - readiness probe (checks the graph store)
//
// Queries run under three resource bounds applied simultaneously: a
// per-vertex edge sampling cap (degree), a supernode avoidance threshold
// (skip_degree) and a total search-space ceiling (capacity). Exceeding the
// capacity fails the whole query; no partial result is returned.
//
// # Configuration
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Environment variables (prefix: PATHFINDER_)
//  2. Config files (config.yaml, config/config.yaml, /etc/pathfinder/config.yaml)
//  3. Default values
//
// Key configuration options (environment variable format):
//
//	# Application
//	PATHFINDER_APP_NAME           - Service name (default: traversal-svc)
//	PATHFINDER_APP_ENVIRONMENT    - Environment: development, staging, production
//
//	# HTTP Server
//	PATHFINDER_HTTP_PORT          - API port (default: 8080)
//
//	# Graph Store
//	PATHFINDER_STORE_DRIVER       - Backend: memory, postgres, neo4j (default: memory)
//	PATHFINDER_STORE_POSTGRES_HOST / _PORT / _DATABASE / _USERNAME / _PASSWORD
//	PATHFINDER_STORE_NEO4J_URI / _USERNAME / _PASSWORD
//
//	# Logging
//	PATHFINDER_LOG_LEVEL          - debug, info, warn, error (default: info)
//	PATHFINDER_LOG_FORMAT         - json, text (default: json)
//	PATHFINDER_LOG_OUTPUT         - stdout, stderr, file (default: stdout)
//
//	# Caching
//	PATHFINDER_CACHE_ENABLED      - Enable result caching (default: false)
//	PATHFINDER_CACHE_DRIVER       - memory, redis (default: memory)
//
//	# Tracing / Metrics
//	PATHFINDER_TRACING_ENABLED    - OTLP tracing (default: false)
//	PATHFINDER_METRICS_ENABLED    - Prometheus endpoint (default: true)
//
//	# Traversal bounds
//	PATHFINDER_TRAVERSAL_DEFAULT_DEGREE   - degree applied when absent (default: 10000)
//	PATHFINDER_TRAVERSAL_DEFAULT_CAPACITY - capacity applied when absent (default: 10000000)
//	PATHFINDER_TRAVERSAL_MAX_CAPACITY     - server-side capacity ceiling (-1 disables)
//	PATHFINDER_TRAVERSAL_MAX_LIMIT        - server-side result limit ceiling (-1 disables)
//
// # Middleware Chain
//
// The HTTP server applies, in order: panic recovery, request id
// (X-Request-ID), structured logging, Prometheus metrics, then on the API
// routes rate limiting (if enabled) and JWT bearer auth (if enabled).
//
// # Graceful Shutdown
//
// The service handles SIGINT and SIGTERM: the HTTP listener drains in-flight
// requests up to the configured shutdown timeout, then telemetry, cache and
// store connections are closed.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pathfinder/pkg/cache"
	"pathfinder/pkg/config"
	"pathfinder/pkg/logger"
	"pathfinder/pkg/metrics"
	"pathfinder/pkg/ratelimit"
	"pathfinder/pkg/telemetry"
	"pathfinder/services/traversal-svc/internal/server"
	"pathfinder/services/traversal-svc/internal/service"
	"pathfinder/services/traversal-svc/internal/store"
	"pathfinder/services/traversal-svc/internal/traversal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	ctx := context.Background()

	// Telemetry: traces are exported to the configured OTLP endpoint. A
	// failure here degrades to the noop provider rather than aborting.
	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Log.Warn("Failed to init telemetry", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Log.Warn("Failed to shutdown telemetry", "error", err)
				}
			}()
			logger.Log.Info("Telemetry initialized", "endpoint", cfg.Tracing.Endpoint)
		}
	}

	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.App.Name)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)

	// Graph store: the backend the traversal engine reads edges from.
	graphStore, err := store.New(ctx, &cfg.Store)
	if err != nil {
		logger.Fatal("failed to initialize graph store", "error", err, "driver", cfg.Store.Driver)
	}
	defer func() {
		if err := graphStore.Close(context.Background()); err != nil {
			logger.Log.Warn("Failed to close graph store", "error", err)
		}
	}()

	// Result cache: optional; the service runs fine without it.
	var traversalCache *cache.TraversalCache
	if cfg.Cache.Enabled {
		baseCache, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Log.Warn("Failed to create cache, continuing without cache", "error", err)
		} else {
			defer baseCache.Close()
			traversalCache = cache.NewTraversalCache(baseCache, cfg.Cache.DefaultTTL)
			logger.Log.Info("Traversal cache initialized",
				"driver", cfg.Cache.Driver,
				"ttl", cfg.Cache.DefaultTTL,
			)
		}
	}

	// Rate limiter: per-client-IP limiting on the API routes.
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter, err = ratelimit.New(&ratelimit.Config{
			Requests:  cfg.RateLimit.Requests,
			Window:    cfg.RateLimit.Window,
			Backend:   cfg.RateLimit.Backend,
			RedisAddr: cfg.Cache.Address(),
		})
		if err != nil {
			logger.Log.Warn("Failed to create rate limiter, continuing without", "error", err)
		} else {
			defer limiter.Close()
		}
	}

	traversalService := service.New(traversal.NewTraverser(graphStore), traversalCache, m)
	handlers := server.NewHandlers(traversalService, cfg.Traversal)

	router := server.NewRouter(server.RouterDependencies{
		Handlers:   handlers,
		Metrics:    m,
		Limiter:    limiter,
		Auth:       &cfg.Auth,
		StoreProbe: graphStore.Ping,
	})

	srv := server.New(cfg.HTTP, router)

	// Metrics are served on their own port so scrapes never compete with
	// API traffic.
	var metricsSrv *metrics.Server
	if cfg.Metrics.Enabled {
		metricsSrv = metrics.NewServer(m, cfg.Metrics.Port, cfg.Metrics.Path)
		go func() {
			if err := metricsSrv.Start(); err != nil {
				logger.Log.Warn("Metrics server stopped", "error", err)
			}
		}()
	}

	logger.Info("Starting traversal service",
		"addr", cfg.HTTP.Address(),
		"store", cfg.Store.Driver,
		"environment", cfg.App.Environment,
		"version", cfg.App.Version,
		"cache_enabled", traversalCache != nil,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server failed", "error", err)
		}
	case sig := <-sigCh:
		logger.Info("Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("HTTP server shutdown failed", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warn("Metrics server shutdown failed", "error", err)
		}
	}

	logger.Info("Traversal service stopped")
}
