// Package httpapi serves the catalog, rendered samples and the icon list
// over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gnana997/uishowcase/pkg/catalog"
	"github.com/gnana997/uishowcase/pkg/icons"
	"github.com/gnana997/uishowcase/pkg/jsx"
)

const (
	tracerName = "github.com/gnana997/uishowcase/pkg/httpapi"

	// maxBodyBytes bounds POST /api/render bodies.
	maxBodyBytes = 1 << 20

	shutdownTimeout = 5 * time.Second
)

// Server is the HTTP API. The catalog can be swapped while serving.
type Server struct {
	mu      sync.RWMutex
	catalog *catalog.QueryService

	icons    *icons.Registry
	render   jsx.Options
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics
	tracer   trace.Tracer
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRenderOptions sets the serializer options requests start from.
func WithRenderOptions(opts jsx.Options) Option {
	return func(s *Server) { s.render = opts }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a Server over qs and reg. Each server owns its own
// Prometheus registry, exposed at /metrics.
func NewServer(qs *catalog.QueryService, reg *icons.Registry, options ...Option) *Server {
	s := &Server{
		catalog:  qs,
		icons:    reg,
		render:   jsx.DefaultOptions(),
		logger:   slog.Default(),
		registry: prometheus.NewRegistry(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, o := range options {
		o(s)
	}
	if s.icons == nil {
		s.icons = icons.Default()
	}
	s.metrics = newMetrics(s.registry)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/icons", s.handleListIcons)
		r.Get("/categories", s.handleListCategories)
		r.Get("/components", s.handleListComponents)
		r.Get("/components/{name}", s.handleGetComponent)
		r.Get("/components/{name}/examples", s.handleComponentExamples)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetCatalog replaces the served catalog. Requests in flight keep the
// catalog they started with.
func (s *Server) SetCatalog(qs *catalog.QueryService) {
	s.mu.Lock()
	s.catalog = qs
	s.mu.Unlock()
	s.logger.Info("catalog swapped", "components", len(qs.Catalog.Components))
}

func (s *Server) currentCatalog() *catalog.QueryService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		s.logger.Info("http api stopped")
		return nil
	}
}
