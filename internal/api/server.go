package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inkpadhq/inkpad-export/internal/config"
	"github.com/inkpadhq/inkpad-export/internal/export"
	"github.com/inkpadhq/inkpad-export/internal/pipeline"
)

// Server is the HTTP export service.
type Server struct {
	router       chi.Router
	exporter     *export.Exporter
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(exporter *export.Exporter, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		exporter:     exporter,
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.ExportAPIKey, s.log))

		r.Post("/api/export", s.handleExport)
		r.Post("/api/export/async", s.handleExportAsync)
		r.Get("/api/export/{jobID}/status", s.handleExportStatus)
		r.Get("/api/export/{jobID}/result", s.handleExportResult)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
