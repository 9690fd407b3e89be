// Package api serves the compositor over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness probe
//	GET  /version        build information
//	POST /v1/composite   raw image body in, composited image out
//
// The composite endpoint reads compositor options from the query string
// (block_size, max_shift, padding, blend, direction, split, seed, format,
// quality, refresh); anything omitted falls back to the server defaults.
// Responses carry X-Request-ID, X-Cells, X-Seed and X-Cache headers. Errors
// are JSON objects with code and message fields.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/pipeline"
)

const (
	// DefaultMaxBodyBytes caps uploaded images.
	DefaultMaxBodyBytes = 32 << 20

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Config tunes a Server.
type Config struct {
	// Defaults are applied to every request before query overrides.
	// The zero value means pipeline.DefaultOptions().
	Defaults pipeline.Options

	// MaxBodyBytes caps request bodies; zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// Server handles HTTP requests with a shared pipeline.Runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// NewServer creates a server. A nil logger uses log.Default().
func NewServer(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Defaults == (pipeline.Options{}) {
		cfg.Defaults = pipeline.DefaultOptions()
	}
	cfg.Defaults.SetDefaults()
	return &Server{runner: runner, logger: logger, cfg: cfg}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/composite", s.handleComposite)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
