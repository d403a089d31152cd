// Package api implements the vennkit HTTP API.
//
// The API exposes the layout pipeline over REST: layout computation, element
// packing, diagram persistence, and on-demand rendering. Pipeline results are
// served through the same Runner the CLI uses, so both surfaces share caching
// and defaults.
//
// # Endpoints
//
//	POST   /v1/layout                 compute a layout from region counts
//	POST   /v1/pack                   compute layout and element positions
//	POST   /v1/diagrams               pack and persist a diagram
//	GET    /v1/diagrams               list stored diagram IDs
//	GET    /v1/diagrams/{id}          fetch a stored diagram
//	DELETE /v1/diagrams/{id}          delete a stored diagram
//	GET    /v1/diagrams/{id}/render   render a stored diagram (svg, png, json)
//	GET    /healthz                   liveness probe
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/vennkit/vennkit/pkg/cache"
	"github.com/vennkit/vennkit/pkg/diagram/store"
	"github.com/vennkit/vennkit/pkg/pipeline"
	"github.com/vennkit/vennkit/pkg/venn"
)

// =============================================================================
// Server
// =============================================================================

// Config holds server construction options.
type Config struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string

	// LayoutConfig overrides the layout defaults. Zero value means defaults.
	LayoutConfig venn.Config

	// Cache backs the pipeline runner. Nil disables caching.
	Cache cache.Cache

	// Store persists diagrams. Nil falls back to an in-memory store.
	Store store.Store

	// Logger receives request and pipeline logs. Nil silences them.
	Logger *log.Logger
}

// Server wires the pipeline runner and diagram store behind a chi router.
type Server struct {
	router *chi.Mux
	runner *pipeline.Runner
	store  store.Store
	config venn.Config
	logger *log.Logger
}

// New creates a Server with all routes registered.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	st := cfg.Store
	if st == nil {
		st = store.NewMemory()
	}
	layoutCfg := cfg.LayoutConfig
	if layoutCfg.FontToUnit == 0 {
		layoutCfg = venn.DefaultConfig()
	}

	s := &Server{
		router: chi.NewRouter(),
		runner: pipeline.NewRunner(cfg.Cache, logger),
		store:  st,
		config: layoutCfg,
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(requestID)
	s.router.Use(s.logRequests)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/pack", s.handlePack)

		r.Route("/diagrams", func(r chi.Router) {
			r.Post("/", s.handleCreateDiagram)
			r.Get("/", s.handleListDiagrams)
			r.Get("/{id}", s.handleGetDiagram)
			r.Delete("/{id}", s.handleDeleteDiagram)
			r.Get("/{id}/render", s.handleRenderDiagram)
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases the runner's cache and the store.
func (s *Server) Close(ctx context.Context) error {
	err := s.runner.Close()
	if serr := s.store.Close(ctx); err == nil {
		err = serr
	}
	return err
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
