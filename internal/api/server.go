package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/markdoc/internal/config"
	"github.com/dgallion1/markdoc/internal/pipeline"
	"github.com/dgallion1/markdoc/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for markdoc.
type Server struct {
	router chi.Router
	cache  *pipeline.OutputCache
	stats  *stats.LatencyStats
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(cache *pipeline.OutputCache, latency *stats.LatencyStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		cache: cache,
		stats: latency,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Endpoints behind the API key, when one is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/parse", s.handleParse)
		r.Post("/api/render", s.handleRender)
		r.Post("/api/render/batch", s.handleRenderBatch)
		r.Post("/api/sections", s.handleSections)
		r.Post("/api/import", s.handleImport)
		r.Get("/api/stats/parse", s.handleParseStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
