// Package api serves the record operations over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"neonpm/internal/api/middleware"
	"neonpm/internal/core"
)

// Config contains HTTP server settings.
type Config struct {
	Address string
	// RateLimit is requests per second per client IP. Zero disables limiting.
	RateLimit float64
	Burst     int
	// Verbose logs every request instead of failures only.
	Verbose bool
}

// SetDefaults fills missing settings.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
}

// Server is the HTTP API server.
type Server struct {
	config   *Config
	svc      *core.Service
	logger   *slog.Logger
	registry *prometheus.Registry
	limiter  *middleware.RateLimiter
	handler  http.Handler
	server   *http.Server
}

// New builds a server around svc. reg receives the HTTP collectors and is
// exposed on /metrics; nil creates a private registry.
func New(cfg *Config, svc *core.Service, logger *slog.Logger, reg *prometheus.Registry) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if svc == nil {
		return nil, errors.New("service is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	cfg.SetDefaults()
	s := &Server{
		config:   cfg,
		svc:      svc,
		logger:   logger,
		registry: reg,
	}
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.Burst)
	}
	s.handler = s.setupRouter()
	s.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.config.Address
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", "address", s.config.Address)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.config.Address, err)
	}
}

// PruneClients drops idle rate-limit buckets every interval until ctx is
// cancelled. It returns immediately when rate limiting is disabled.
func (s *Server) PruneClients(ctx context.Context, interval, idle time.Duration) error {
	if s.limiter == nil {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.limiter.Prune(idle); n > 0 {
				s.logger.Debug("pruned idle rate-limit clients", "count", n)
			}
		}
	}
}
