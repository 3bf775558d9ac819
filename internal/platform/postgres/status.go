// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"
	"strconv"
)

// DatabaseStatus is the connection snapshot reported by the status endpoint.
type DatabaseStatus struct {
	Version           string `json:"version"`
	MaxConnections    int    `json:"max_connections"`
	OpenedConnections int    `json:"opened_connections"`
}

// Inspector reads server-level metrics from PostgreSQL.
type Inspector struct {
	db           DBTX
	databaseName string
}

// NewInspector creates an [Inspector] that counts connections to databaseName.
func NewInspector(db DBTX, databaseName string) *Inspector {
	return &Inspector{db: db, databaseName: databaseName}
}

// Status queries the server version, the connection limit, and the number of
// backends currently attached to the configured database.
func (inspector *Inspector) Status(ctx context.Context) (*DatabaseStatus, error) {
	status := &DatabaseStatus{}

	if err := inspector.db.QueryRow(ctx, "SHOW server_version;").Scan(&status.Version); err != nil {
		return nil, fmt.Errorf("postgres_status_version_failed: %w", err)
	}

	var rawMaxConnections string
	if err := inspector.db.QueryRow(ctx, "SHOW max_connections;").Scan(&rawMaxConnections); err != nil {
		return nil, fmt.Errorf("postgres_status_max_connections_failed: %w", err)
	}

	maxConnections, err := strconv.Atoi(rawMaxConnections)
	if err != nil {
		return nil, fmt.Errorf("postgres_status_max_connections_parse_failed: %w", err)
	}
	status.MaxConnections = maxConnections

	const openedQuery = "SELECT count(*)::int FROM pg_stat_activity WHERE datname = $1;"
	if err := inspector.db.QueryRow(ctx, openedQuery, inspector.databaseName).Scan(&status.OpenedConnections); err != nil {
		return nil, fmt.Errorf("postgres_status_opened_connections_failed: %w", err)
	}

	return status, nil
}
