// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/portal/internal/platform/postgres"
	"github.com/taibuivan/portal/internal/platform/respond"
)

// DatabaseInspector reports the state of the relational database.
type DatabaseInspector interface {
	Status(ctx context.Context) (*postgres.DatabaseStatus, error)
}

// StatusResponse is the body of GET /api/v1/status.
type StatusResponse struct {
	UpdatedAt    time.Time          `json:"updated_at"`
	Dependencies StatusDependencies `json:"dependencies"`
}

// StatusDependencies groups per-dependency status snapshots.
type StatusDependencies struct {
	Database *postgres.DatabaseStatus `json:"database"`
}

// StatusHandler serves the public status endpoint.
type StatusHandler struct {
	inspector DatabaseInspector
	now       func() time.Time
}

// NewStatusHandler creates a [StatusHandler]. A nil now defaults to [time.Now].
func NewStatusHandler(inspector DatabaseInspector, now func() time.Time) *StatusHandler {
	if now == nil {
		now = time.Now
	}
	return &StatusHandler{inspector: inspector, now: now}
}

// Routes returns the status router. Only GET is allowed.
func (handler *StatusHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.status)
	return router
}

func (handler *StatusHandler) status(writer http.ResponseWriter, request *http.Request) {
	updatedAt := handler.now().UTC()

	database, err := handler.inspector.Status(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, StatusResponse{
		UpdatedAt:    updatedAt,
		Dependencies: StatusDependencies{Database: database},
	})
}
