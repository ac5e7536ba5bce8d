// Package web provides the HTTP status server for the importer.
//
// The importer is normally a one-shot command; the server exists for the
// hosted setup where a run is triggered and watched from a browser.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/parkermills/iBizToMySQL/internal/migrate"
)

// Migrator runs one migration pass and reports the outcome.
// Satisfied by *migrate.Pipeline.
type Migrator interface {
	Run(ctx context.Context) (*migrate.Report, error)
}

// Server is the HTTP server wrapping a Migrator.
type Server struct {
	migrator Migrator
	router   *chi.Mux
	server   *http.Server

	mu      sync.Mutex
	running bool
	report  *migrate.Report
}

// NewServer creates a Server listening on addr.
func NewServer(migrator Migrator, addr string) *Server {
	s := &Server{
		migrator: migrator,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleStatus)
	s.router.Post("/run", s.handleRun)
	s.router.Get("/report", s.handleReport)
}

// Start runs the HTTP server. Blocks until shutdown.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// snapshot returns the current run state under the lock.
func (s *Server) snapshot() (running bool, report *migrate.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.report
}
