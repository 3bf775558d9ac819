// Copyright (c) 2026 Yomira. All rights reserved.
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

	"github.com/taibuivan/portal/internal/platform/apperr"
	"github.com/taibuivan/portal/internal/platform/config"
	"github.com/taibuivan/portal/internal/platform/constants"
	"github.com/taibuivan/portal/internal/platform/middleware"
	"github.com/taibuivan/portal/internal/platform/respond"
	"github.com/taibuivan/portal/internal/users/auth"
	"github.com/taibuivan/portal/internal/users/user"
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

// Handlers groups all HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler, 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus exposition format.
	Metrics http.Handler

	// HTTPMetrics records per-route request counters and latencies.
	HTTPMetrics *middleware.HTTPMetrics

	// Status reports database version and connection usage.
	Status *StatusHandler

	// Migrations lists and applies pending schema migrations.
	Migrations *MigrationsHandler

	// Users handles registration and profile routes.
	Users *user.Handler

	// Auth handles login, logout and the current-user route.
	Auth *auth.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	if h.HTTPMetrics != nil {
		r.Use(h.HTTPMetrics.Middleware)
	}
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg, cfg.AllowedOrigins))
	r.Use(chimw.CleanPath)

	// Set before any Mount so sub-routers inherit them.
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	v1 := chi.NewRouter()
	v1.NotFound(notFound)
	v1.MethodNotAllowed(methodNotAllowed)

	v1.Mount("/status", h.Status.Routes())
	v1.Mount("/migrations", h.Migrations.Routes())
	v1.Mount("/users", h.Users.Routes())
	v1.Mount("/sessions", h.Auth.SessionRoutes())
	v1.Mount("/user", h.Auth.UserRoutes())

	r.Mount("/api/v1", v1)

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

// Handler exposes the fully wired router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Fallback Handlers

func notFound(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.NotFound(
		"O recurso solicitado não foi encontrado.",
		"Verifique se o endereço do endpoint está correto.",
	))
}

func methodNotAllowed(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.MethodNotAllowed())
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
