// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration provides a thin wrapper around golang-migrate for
// running database schema migrations.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. It enforces schema
// idempotency during application startup, ensuring the database is always
// in the correct state before traffic is served. The same [Runner] backs the
// migrations endpoint, which lists and applies pending versions on demand.
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migration describes a single versioned migration file pair.
type Migration struct {
	Version uint   `json:"version"`
	Name    string `json:"name"`
}

// Runner applies and inspects migrations for one database.
type Runner struct {
	sourceURL   string
	databaseURL string
	logger      *slog.Logger
}

// NewRunner builds a [Runner].
//
// # Parameters
//   - dsn: A libpq-compatible DSN or postgres:// URL.
//   - migrationsPath: Filesystem path to the migrations directory.
//   - logger: Structured logger for migration events.
func NewRunner(dsn string, migrationsPath string, logger *slog.Logger) *Runner {
	return &Runner{
		sourceURL:   "file://" + migrationsPath,
		databaseURL: convertToPgx5DSN(dsn),
		logger:      logger,
	}
}

// RunUp applies all pending UP migrations. Used at startup.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	_, err := NewRunner(dsn, migrationsPath, logger).Up()
	return err
}

// Pending lists the migrations newer than the database's current version.
func (r *Runner) Pending() ([]Migration, error) {
	migrator, err := r.open()
	if err != nil {
		return nil, err
	}
	defer r.close(migrator)

	currentVersion, err := r.currentVersion(migrator)
	if err != nil {
		return nil, err
	}

	return r.listAfter(currentVersion)
}

// Up applies every pending migration and returns the ones that were applied.
// An up-to-date database yields an empty, non-nil slice.
func (r *Runner) Up() ([]Migration, error) {
	migrator, err := r.open()
	if err != nil {
		return nil, err
	}
	defer r.close(migrator)

	currentVersion, err := r.currentVersion(migrator)
	if err != nil {
		return nil, err
	}

	pending, err := r.listAfter(currentVersion)
	if err != nil {
		return nil, err
	}

	r.logger.Info("migration_started",
		slog.Int("current_version", int(currentVersion)),
		slog.Int("pending", len(pending)),
	)

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Info("migration_already_up_to_date")
			return []Migration{}, nil
		}
		return nil, fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	r.logger.Info("migration_successful",
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return pending, nil
}

func (r *Runner) open() (*migrate.Migrate, error) {
	migrator, err := migrate.New(r.sourceURL, r.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}

	// Enable verbose logging via the slog bridge.
	migrator.Log = &migrateLogger{logger: r.logger}
	return migrator, nil
}

func (r *Runner) close(migrator *migrate.Migrate) {
	sourceError, dbError := migrator.Close()
	if sourceError != nil {
		r.logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
	}
	if dbError != nil {
		r.logger.Error("migration_db_close_failed", slog.Any("error", dbError))
	}
}

// currentVersion returns 0 for a fresh database and fails on a dirty one.
func (r *Runner) currentVersion(migrator *migrate.Migrate) (uint, error) {
	version, isDirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	if isDirty {
		return 0, fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", version)
	}
	return version, nil
}

// listAfter walks the source and collects every version greater than after.
func (r *Runner) listAfter(after uint) ([]Migration, error) {
	driver, err := source.Open(r.sourceURL)
	if err != nil {
		return nil, fmt.Errorf("migration: failed to open source: %w", err)
	}
	defer driver.Close()

	return collectAfter(driver, after)
}

func collectAfter(driver source.Driver, after uint) ([]Migration, error) {
	migrations := []Migration{}

	version, err := driver.First()
	for err == nil {
		if version > after {
			migrations = append(migrations, Migration{Version: version, Name: migrationName(driver, version)})
		}
		version, err = driver.Next(version)
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("migration: failed to read source: %w", err)
	}

	return migrations, nil
}

// migrationName returns the identifier part of the up file, or "" if unreadable.
func migrationName(driver source.Driver, version uint) string {
	reader, identifier, err := driver.ReadUp(version)
	if err != nil {
		return ""
	}
	_ = reader.Close()
	return identifier
}

// convertToPgx5DSN ensures the DSN uses the pgx5:// scheme required by golang-migrate/v4.
func convertToPgx5DSN(dsn string) string {
	const pgx5Prefix = "pgx5://"

	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return pgx5Prefix + rest
		}
	}

	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
