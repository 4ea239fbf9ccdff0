// Package api implements the mccabe HTTP API.
//
// Routes:
//
//	GET    /healthz                          liveness and build info
//	POST   /v1/solve                         solve a design (report, or a diagram with ?format=;
//	                                         ?strict=true answers 422 when x_D is not reached)
//	POST   /v1/designs                       solve and persist a design
//	GET    /v1/designs                       list stored designs, newest first
//	GET    /v1/designs/{id}                  fetch a stored design
//	DELETE /v1/designs/{id}                  delete a stored design
//	GET    /v1/designs/{id}/diagram.{format} render a stored design
//	GET    /v1/stats                         solve and cache counters
//
// Request bodies are [pipeline.Options] encoded as JSON. Errors are returned
// as {"error": {"code": ..., "message": ...}} with a 4xx status for invalid
// input and 5xx otherwise.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mccabe/pkg/observability"
	"github.com/matzehuels/mccabe/pkg/pipeline"
	"github.com/matzehuels/mccabe/pkg/store"
)

// Server defaults.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 30 * time.Second
	maxBodyBytes          = 1 << 20
)

// Config holds the server dependencies.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// RequestTimeout bounds each request. Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// Server serves the API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	counters *observability.Counters
	logger   *log.Logger
	timeout  time.Duration
	router   chi.Router
}

// New builds a server. The runner's hooks are replaced by the server's
// counters, which back /v1/stats. A nil store falls back to a MemoryStore.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Runner.Logger
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	counters := observability.NewCounters()
	cfg.Runner.Hooks = observability.Hooks{Solve: counters, Cache: counters}

	s := &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		counters: counters,
		logger:   cfg.Logger,
		timeout:  cfg.RequestTimeout,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/stats", s.handleStats)

		r.Route("/designs", func(r chi.Router) {
			r.Post("/", s.handleCreateDesign)
			r.Get("/", s.handleListDesigns)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDesign)
				r.Delete("/", s.handleDeleteDesign)
				r.Get("/diagram.{format}", s.handleDesignDiagram)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// Close releases the store and the runner's cache.
func (s *Server) Close() error {
	return stderrors.Join(s.store.Close(), s.runner.Close())
}
