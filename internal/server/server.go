// Package server provides the HTTP gateway for TezYab.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pajuhan/tezyab/internal/backend"
	"github.com/pajuhan/tezyab/internal/config"
	"github.com/pajuhan/tezyab/internal/metrics"
	"github.com/pajuhan/tezyab/internal/search"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP gateway between the display layer and the search
// backend. It owns no per-query state: every search builds its own context.
type Server struct {
	engine   *search.Engine
	client   *backend.Client
	config   *config.ServerConfig
	logger   *zap.Logger
	fence    *search.Fence
	defaults atomic.Pointer[search.Options]
	server   *http.Server
}

// NewServer creates a server with the given dependencies. searchDefaults are
// the pipeline options applied to requests that do not override them.
func NewServer(
	engine *search.Engine,
	client *backend.Client,
	cfg *config.ServerConfig,
	searchDefaults search.Options,
	logger *zap.Logger,
) *Server {
	s := &Server{
		engine: engine,
		client: client,
		config: cfg,
		logger: logger,
		fence:  &search.Fence{},
	}
	s.defaults.Store(&searchDefaults)
	return s
}

// UpdateSearchDefaults swaps the default pipeline options. Safe to call while
// the server is running; in-flight searches keep the options they started
// with.
func (s *Server) UpdateSearchDefaults(opts search.Options) {
	s.defaults.Store(&opts)
}

func (s *Server) searchDefaults() search.Options {
	return *s.defaults.Load()
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(metrics.Middleware())

	r.Post("/api/search", s.handleSearch)
	r.Get("/api/models", s.handleModels)
	r.Get("/api/schema", s.handleSchema)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting gateway", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
