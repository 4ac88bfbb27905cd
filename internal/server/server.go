// Package server implements the HTTP API for brickmap.
//
// The API exposes the same pipeline the CLI uses: clients upload
// heightmap and colormap images (or request procedural terrain) and
// receive an encoded save file. Responses are cached through the shared
// pipeline Runner, so repeated conversions of the same inputs are cheap.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brickforge/brickmap/pkg/cache"
	"github.com/brickforge/brickmap/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxUploadBytes caps the total size of uploaded images.
	DefaultMaxUploadBytes = 64 << 20

	// requestTimeout bounds a single conversion request. Large maps can
	// take a while to merge, so this is generous.
	requestTimeout = 5 * time.Minute

	shutdownTimeout = 10 * time.Second
)

// Config contains server configuration.
type Config struct {
	Addr           string
	Cache          cache.Cache
	Keyer          cache.Keyer
	Logger         *log.Logger
	MaxUploadBytes int64
}

// Server is the brickmap HTTP API server.
type Server struct {
	runner         *pipeline.Runner
	logger         *log.Logger
	router         chi.Router
	addr           string
	maxUploadBytes int64
}

// New creates a server with its routes configured.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		runner:         pipeline.NewRunner(cfg.Cache, cfg.Keyer, cfg.Logger),
		logger:         cfg.Logger,
		addr:           cfg.Addr,
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
	})

	s.router = r
	return s
}

// Handler returns the server's HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("api server stopped")
	return nil
}

// Close releases the runner's resources.
func (s *Server) Close() error {
	return s.runner.Close()
}
