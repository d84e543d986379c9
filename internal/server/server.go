package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/yeabuddy/internal/ingest/alpha"
	"github.com/claude/yeabuddy/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options tune the HTTP layer.
type Options struct {
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty means "*".
	CORSOrigin string
	// RequestTimeout bounds each request. Zero disables the timeout.
	RequestTimeout time.Duration
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	repo   storage.Repository
	alpha  *alpha.Provider
	log    *slog.Logger
	opts   Options
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(repo storage.Repository, opts Options, log *slog.Logger) *Server {
	s := &Server{
		repo:   repo,
		alpha:  alpha.NewProvider(repo, log),
		log:    log,
		opts:   opts,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(CORS(s.opts.CORSOrigin))

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		if s.opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.opts.RequestTimeout))
		}
		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Post("/import/alpha", s.handleAlphaImport)
	})
}

// SetMCP mounts an MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}
