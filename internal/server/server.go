// Package server exposes the search engine over HTTP with a chi router,
// Prometheus metrics, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdantcart/hybridsearch/internal/embed"
	"github.com/verdantcart/hybridsearch/internal/graph"
	"github.com/verdantcart/hybridsearch/internal/index"
	"github.com/verdantcart/hybridsearch/internal/search"
)

// Searcher is the engine surface the HTTP layer depends on.
type Searcher interface {
	Search(ctx context.Context, query string, opts search.Options) (*search.Response, error)
	IndexCatalog(ctx context.Context) (index.Stats, error)
}

// Config configures the HTTP server.
type Config struct {
	Host string
	Port int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server wires the engine into an http.Server.
type Server struct {
	cfg        Config
	engine     Searcher
	graphStore graph.RelationshipStore
	embedder   embed.Embedder
	snapshots  *index.Cache
	logger     *slog.Logger

	httpSrv *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithGraphStore attaches the relationship store so the health endpoint
// can report its reachability.
func WithGraphStore(store graph.RelationshipStore) Option {
	return func(s *Server) {
		s.graphStore = store
	}
}

// WithEmbedder attaches the embedder so the health endpoint can report
// its availability.
func WithEmbedder(e embed.Embedder) Option {
	return func(s *Server) {
		s.embedder = e
	}
}

// WithSnapshotCache attaches the snapshot cache so the health endpoint
// can report index freshness.
func WithSnapshotCache(c *index.Cache) Option {
	return func(s *Server) {
		s.snapshots = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server around the engine.
func New(cfg Config, engine Searcher, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		engine: engine,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Router builds the chi router. Exposed separately so tests can drive the
// handlers through httptest without binding a port.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(s.recoverer())
	r.Use(s.requestLogger())

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Post("/index/rebuild", s.handleRebuild)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", slog.String("addr", s.httpSrv.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
