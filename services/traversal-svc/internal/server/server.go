// Package server exposes the traversal service over a JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"pathfinder/pkg/config"
	"pathfinder/pkg/logger"
)

// Server owns the HTTP listener lifecycle.
type Server struct {
	httpServer *http.Server
	cfg        config.HTTPConfig
}

// New constructs a Server around the given handler.
func New(cfg config.HTTPConfig, handler http.Handler) *Server {
	httpServer := &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		cfg:        cfg,
	}
}

// Start begins listening for HTTP traffic. It blocks until the server stops.
func (s *Server) Start() error {
	logger.Log.Info("starting http server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully terminates all active connections.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
