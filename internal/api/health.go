// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/portal/internal/platform/respond"
)

// HealthCheck probes a single dependency.
type HealthCheck func(ctx context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase HealthCheck

	// CheckCache pings the Redis client. Nil when sessions live in PostgreSQL.
	CheckCache HealthCheck
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()

	results := make([]checkResult, 0, 2)
	isSystemReady := true

	run := func(name string, check HealthCheck) {
		if check == nil {
			return
		}
		result := checkResult{Name: name, IsOK: true}
		if err := check(ctx); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.ErrorContext(ctx, "readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	run("postgres", handler.dependencies.CheckDatabase)
	run("redis", handler.dependencies.CheckCache)

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, map[string]any{
		"status": responseStatus,
		"checks": results,
	})
}
