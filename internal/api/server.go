package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dgallion1/docxlist/internal/config"
	"github.com/dgallion1/docxlist/internal/pipeline"
	"github.com/dgallion1/docxlist/internal/stats"
)

// Packages opens stored .docx packages by hash.
type Packages interface {
	Open(hash string) (io.ReadSeekCloser, int64, error)
}

// Server is the HTTP API server for docxlist.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	packages     Packages
	stats        *stats.RenderStats
	log          *zap.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, packages Packages, st *stats.RenderStats, log *zap.Logger, cfg config.Config) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		orchestrator: orch,
		packages:     packages,
		stats:        st,
		log:          log.Named("api"),
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
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/render", s.handleRender)

		r.Post("/api/jobs", s.handleCreateJob)
		r.Post("/api/jobs/batch", s.handleBatchJobs)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/document", s.handleJobDocument)

		r.Get("/api/stats/render", s.handleRenderStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
