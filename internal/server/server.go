// Package server implements the acrostic HTTP API.
//
// # Endpoints
//
//	POST /v1/arrange       arrange lyrics, returns the best layout
//	POST /v1/alternatives  best layout per start word, best first
//	GET  /healthz          liveness and build information
//	GET  /metrics          Prometheus metrics, when enabled
//
// Every response carries an X-Request-ID header; arrange responses repeat
// it as "id". Layout failures are reported with status 422 and the
// CANNOT_ASSEMBLE sentinel so clients of the string API can keep treating
// the sentinel as the only failure value.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/acrostic/internal/config"
	"github.com/matzehuels/acrostic/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown once the context is canceled.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP API server.
type Server struct {
	runner  *pipeline.Runner
	cfg     *config.Config
	logger  *log.Logger
	metrics http.Handler
	router  chi.Router
}

// New creates a server. A nil metrics handler disables /metrics.
func New(runner *pipeline.Runner, cfg *config.Config, logger *log.Logger, metrics http.Handler) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		router:  chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures middleware and routes.
func (s *Server) setupRoutes() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics)
	}

	s.router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/arrange", s.handleArrange)
		r.Post("/alternatives", s.handleAlternatives)
	})
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
