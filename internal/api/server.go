// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/petfolio/internal/auth"
	"github.com/taibuivan/petfolio/internal/pet"
	"github.com/taibuivan/petfolio/internal/platform/config"
	"github.com/taibuivan/petfolio/internal/platform/constants"
	"github.com/taibuivan/petfolio/internal/platform/middleware"
	"github.com/taibuivan/petfolio/internal/platform/respond"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /api/health handler — always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /api/ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration, login, and profile routes.
	Auth *auth.Handler

	// Pet handles the per-user pet resource.
	Pet *pet.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// The Auth Gate protects the pet resource and the profile routes.
	// Register, login, and the health probes stay outside it.
	gate := middleware.Authenticate(verifier)

	// # Application API
	r.Route("/api", func(api chi.Router) {
		// Unauthenticated probes for container orchestration.
		api.Get("/health", h.Liveness)
		api.Get("/ready", h.Readiness)

		api.Mount("/auth", h.Auth.Routes(gate))

		api.Group(func(protected chi.Router) {
			protected.Use(gate)
			protected.Mount("/pets", h.Pet.Routes())
		})
	})

	// # Fallbacks
	// Unknown routes and verbs get the same uniform envelope.
	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Router exposes the composed handler, primarily for httptest-based tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// routeNotFound answers any unmatched route with the standard envelope.
func routeNotFound(writer http.ResponseWriter, request *http.Request) {
	respond.Fail(writer, http.StatusNotFound, "Route not found")
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
