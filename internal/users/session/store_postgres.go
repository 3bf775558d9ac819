// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/portal/internal/platform/database/schema"
	"github.com/taibuivan/portal/internal/platform/dberr"
	"github.com/taibuivan/portal/internal/platform/postgres"
)

// # Session Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository creates a new PostgreSQL implementation of [Repository].
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Create persists a new session row.

Description: A user_id that does not reference an existing user violates the
foreign key and is returned as a plain storage error.
*/
func (repository *PostgresRepository) Create(context context.Context, session *Session) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.Sessions.Table, schema.Sessions.ColumnList(), schema.Sessions.ColumnList(),
	)

	row := repository.db.QueryRow(context, query,
		session.ID,
		session.Token,
		session.UserID,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err := scanSession(row, session); err != nil {
		if dberr.ForeignKeyViolation(err) {
			return fmt.Errorf("postgres_session_repo_create_unknown_user: %w", err)
		}
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

// FindValidByToken retrieves a non-expired session by its token.
func (repository *PostgresRepository) FindValidByToken(context context.Context, token string, now time.Time) (*Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s > $2
		LIMIT 1`,
		schema.Sessions.ColumnList(), schema.Sessions.Table, schema.Sessions.Token, schema.Sessions.ExpiresAt,
	)

	session := &Session{}
	if err := scanSession(repository.db.QueryRow(context, query, token, now), session); err != nil {
		if dberr.IsNoRows(err) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("postgres_session_repo_find_valid_by_token_failed: %w", err)
	}

	return session, nil
}

// Renew slides the window of a session that has not expired at now.
func (repository *PostgresRepository) Renew(context context.Context, id string, now, expiresAt time.Time) (*Session, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1 AND %s > $3
		RETURNING %s`,
		schema.Sessions.Table, schema.Sessions.ExpiresAt, schema.Sessions.UpdatedAt,
		schema.Sessions.ID, schema.Sessions.ExpiresAt, schema.Sessions.ColumnList(),
	)

	session := &Session{}
	if err := scanSession(repository.db.QueryRow(context, query, id, expiresAt, now), session); err != nil {
		if dberr.IsNoRows(err) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("postgres_session_repo_renew_failed: %w", err)
	}

	return session, nil
}

// Touch updates the expiration window of a session by primary key.
func (repository *PostgresRepository) Touch(context context.Context, id string, now, expiresAt time.Time) (*Session, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1
		RETURNING %s`,
		schema.Sessions.Table, schema.Sessions.ExpiresAt, schema.Sessions.UpdatedAt,
		schema.Sessions.ID, schema.Sessions.ColumnList(),
	)

	session := &Session{}
	if err := scanSession(repository.db.QueryRow(context, query, id, expiresAt, now), session); err != nil {
		if dberr.IsNoRows(err) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("postgres_session_repo_touch_failed: %w", err)
	}

	return session, nil
}

func scanSession(row pgx.Row, session *Session) error {
	return row.Scan(
		&session.ID,
		&session.Token,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
}
