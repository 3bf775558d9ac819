// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/portal/internal/platform/migration"
	"github.com/taibuivan/portal/internal/platform/respond"
)

// Migrator lists and applies schema migrations.
type Migrator interface {
	Pending() ([]migration.Migration, error)
	Up() ([]migration.Migration, error)
}

// MigrationsHandler exposes the migration runner over HTTP.
type MigrationsHandler struct {
	migrator Migrator
}

// NewMigrationsHandler creates a [MigrationsHandler].
func NewMigrationsHandler(migrator Migrator) *MigrationsHandler {
	return &MigrationsHandler{migrator: migrator}
}

// Routes returns the migrations router.
//
//   - GET  /  lists pending migrations without applying them.
//   - POST /  applies pending migrations. 201 when something ran, 200 otherwise.
func (handler *MigrationsHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.pending)
	router.Post("/", handler.apply)
	return router
}

func (handler *MigrationsHandler) pending(writer http.ResponseWriter, request *http.Request) {
	migrations, err := handler.migrator.Pending()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, nonNil(migrations))
}

func (handler *MigrationsHandler) apply(writer http.ResponseWriter, request *http.Request) {
	migrations, err := handler.migrator.Up()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if len(migrations) > 0 {
		respond.Created(writer, migrations)
		return
	}
	respond.OK(writer, nonNil(migrations))
}

// nonNil keeps an empty result encoded as [] rather than null.
func nonNil(migrations []migration.Migration) []migration.Migration {
	if migrations == nil {
		return []migration.Migration{}
	}
	return migrations
}
