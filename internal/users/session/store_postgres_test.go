// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portal/internal/platform/dberr"
	"github.com/taibuivan/portal/internal/users/session"
)

var sessionColumns = []string{"id", "token", "user_id", "expires_at", "created_at", "updated_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func sampleSession(now time.Time) *session.Session {
	return &session.Session{
		ID:        "0194c3a0-0000-7000-8000-00000000000a",
		Token:     "abc123",
		UserID:    "0194c3a0-0000-7000-8000-000000000001",
		ExpiresAt: now.Add(testTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sessionRow(s *session.Session) *pgxmock.Rows {
	return pgxmock.NewRows(sessionColumns).
		AddRow(s.ID, s.Token, s.UserID, s.ExpiresAt, s.CreatedAt, s.UpdatedAt)
}

/*
TestPostgresRepository_Create inserts every column.
*/
func TestPostgresRepository_Create(t *testing.T) {
	mock := newMock(t)
	entity := sampleSession(time.Now().UTC())

	mock.ExpectQuery("INSERT INTO sessions").
		WithArgs(entity.ID, entity.Token, entity.UserID, entity.ExpiresAt, entity.CreatedAt, entity.UpdatedAt).
		WillReturnRows(sessionRow(entity))

	require.NoError(t, session.NewPostgresRepository(mock).Create(context.Background(), entity))
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Create_UnknownUser surfaces the foreign key failure.
*/
func TestPostgresRepository_Create_UnknownUser(t *testing.T) {
	mock := newMock(t)
	entity := sampleSession(time.Now().UTC())

	mock.ExpectQuery("INSERT INTO sessions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})

	err := session.NewPostgresRepository(mock).Create(context.Background(), entity)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres_session_repo_create_unknown_user")
}

/*
TestPostgresRepository_FindValidByToken filters on expires_at > now.
*/
func TestPostgresRepository_FindValidByToken(t *testing.T) {
	now := time.Now().UTC()
	entity := sampleSession(now)

	t.Run("valid", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`WHERE token = \$1 AND expires_at > \$2`).
			WithArgs("abc123", now).
			WillReturnRows(sessionRow(entity))

		found, err := session.NewPostgresRepository(mock).FindValidByToken(context.Background(), "abc123", now)
		require.NoError(t, err)
		assert.Equal(t, entity, found)
	})

	t.Run("missing or expired", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`WHERE token = \$1 AND expires_at > \$2`).
			WithArgs("abc123", now).
			WillReturnError(pgx.ErrNoRows)

		_, err := session.NewPostgresRepository(mock).FindValidByToken(context.Background(), "abc123", now)
		assert.ErrorIs(t, err, dberr.ErrNotFound)
	})
}

/*
TestPostgresRepository_Touch updates both timestamps by primary key.
*/
func TestPostgresRepository_Touch(t *testing.T) {
	now := time.Now().UTC()
	entity := sampleSession(now)
	expiresAt := now.Add(testTTL)

	mock := newMock(t)
	mock.ExpectQuery("UPDATE sessions").
		WithArgs(entity.ID, expiresAt, now).
		WillReturnRows(sessionRow(entity))
	mock.ExpectQuery("UPDATE sessions").
		WithArgs("missing", expiresAt, now).
		WillReturnError(pgx.ErrNoRows)

	repository := session.NewPostgresRepository(mock)

	touched, err := repository.Touch(context.Background(), entity.ID, now, expiresAt)
	require.NoError(t, err)
	assert.Equal(t, entity.ID, touched.ID)

	_, err = repository.Touch(context.Background(), "missing", now, expiresAt)
	assert.ErrorIs(t, err, dberr.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_Renew only updates rows still valid at now.
*/
func TestPostgresRepository_Renew(t *testing.T) {
	now := time.Now().UTC()
	entity := sampleSession(now)
	expiresAt := now.Add(testTTL)

	mock := newMock(t)
	mock.ExpectQuery(`WHERE id = \$1 AND expires_at > \$3`).
		WithArgs(entity.ID, expiresAt, now).
		WillReturnRows(sessionRow(entity))
	mock.ExpectQuery(`WHERE id = \$1 AND expires_at > \$3`).
		WithArgs(entity.ID, expiresAt, now).
		WillReturnError(pgx.ErrNoRows)

	repository := session.NewPostgresRepository(mock)

	renewed, err := repository.Renew(context.Background(), entity.ID, now, expiresAt)
	require.NoError(t, err)
	assert.Equal(t, entity.ID, renewed.ID)

	_, err = repository.Renew(context.Background(), entity.ID, now, expiresAt)
	assert.ErrorIs(t, err, dberr.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
