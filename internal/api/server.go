// Package api exposes the planner driver over HTTP for an external
// orchestrator: POST /v1/solve to run a scenario, GET /v1/runs/{id} to read
// back an audited solve, GET /healthz for liveness, and GET /metrics for
// Prometheus scraping. Routing and middleware follow douglaslinsmeyer-...-
// toolbox's internal/api/server.go (gorilla/mux subrouters, rs/cors).
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/pinggolf/cryoplanner/internal/audit"
	"github.com/pinggolf/cryoplanner/internal/planner"
)

// Server wires the solve driver and audit store behind an HTTP router.
type Server struct {
	driver *planner.Driver
	audit  *audit.Store
	logger zerolog.Logger

	router *mux.Router

	// CORSAllowedOrigins defaults to "*" (this API has no browser-session
	// auth to leak) unless overridden before Router is called.
	CORSAllowedOrigins []string
}

// NewServer builds a Server around driver and an optional audit store (nil
// disables the run-lookup endpoint).
func NewServer(driver *planner.Driver, auditStore *audit.Store, logger zerolog.Logger) *Server {
	s := &Server{
		driver:             driver,
		audit:              auditStore,
		logger:             logger,
		router:             mux.NewRouter(),
		CORSAllowedOrigins: []string{"*"},
	}
	s.setupRoutes()
	return s
}

// Router returns the configured HTTP handler with CORS applied.
func (s *Server) Router() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	return c.Handler(s.router)
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/solve", s.handleSolve).Methods("POST")
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// ListenAndServe starts the HTTP server on addr with conservative
// read/write timeouts.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // a solve can legitimately run long
		IdleTimeout:  60 * time.Second,
	}
	return srv.ListenAndServe()
}
