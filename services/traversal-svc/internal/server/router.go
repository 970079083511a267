package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"pathfinder/pkg/apperror"
	"pathfinder/pkg/config"
	"pathfinder/pkg/metrics"
	"pathfinder/pkg/ratelimit"
)

// HealthProbe checks a downstream dependency for the readiness endpoint.
type HealthProbe func(ctx context.Context) error

// RouterDependencies collects everything the router wires together.
type RouterDependencies struct {
	Handlers   *Handlers
	Metrics    *metrics.Metrics
	Limiter    ratelimit.Limiter // nil disables rate limiting
	Auth       *config.AuthConfig
	StoreProbe HealthProbe
}

// NewRouter builds the HTTP handler tree with the middleware chain:
// recovery, request id, logging, metrics, rate limit and optional JWT auth
// on the API routes.
func NewRouter(deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", handleHealthz)
	mux.HandleFunc("/readyz", handleReadyz(deps.StoreProbe))

	api := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/shortest-paths":
			deps.Handlers.ShortestPaths(w, r)
		case "/api/v1/shortest-path":
			deps.Handlers.ShortestPath(w, r)
		default:
			writeError(w, apperror.New(apperror.CodeNotFound, "unknown route"))
		}
	}))

	if deps.Auth != nil && deps.Auth.Enabled {
		api = authMiddleware(deps.Auth)(api)
	}
	if deps.Limiter != nil {
		api = rateLimitMiddleware(deps.Limiter)(api)
	}
	mux.Handle("/api/v1/", api)

	handler := http.Handler(mux)
	if deps.Metrics != nil {
		handler = metricsMiddleware(deps.Metrics)(handler)
	}
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)
	return handler
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func handleReadyz(probe HealthProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if probe != nil {
			if err := probe(ctx); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]any{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	appErr := apperror.From(err)
	respondJSON(w, appErr.HTTPStatus(), map[string]any{
		"error": errorBody{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Field:   appErr.Field,
		},
	})
}
