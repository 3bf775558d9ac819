// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/portal/internal/platform/database/schema"
	"github.com/taibuivan/portal/internal/platform/dberr"
	"github.com/taibuivan/portal/internal/platform/postgres"
)

// # User Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository creates a new PostgreSQL implementation of [Repository].
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Create persists a new user record into the users table.

Description: Timestamps are supplied by the caller. The row returned by the
database overwrites the entity so precision matches what is stored.
*/
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.Users.Table, schema.Users.ColumnList(), schema.Users.ColumnList(),
	)

	row := repository.db.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err := scanUser(row, user); err != nil {
		if duplicate := duplicateFromConstraint(err, OperationCreate); duplicate != nil {
			return duplicate
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a user record by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 LIMIT 1`,
		schema.Users.ColumnList(), schema.Users.Table, schema.Users.ID)
	return repository.findOne(context, "find_by_id", query, id)
}

// FindByUsername retrieves a user record by case-insensitive username.
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1) LIMIT 1`,
		schema.Users.ColumnList(), schema.Users.Table, schema.Users.Username)
	return repository.findOne(context, "find_by_username", query, username)
}

// FindByEmail retrieves a user record by case-insensitive email.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1) LIMIT 1`,
		schema.Users.ColumnList(), schema.Users.Table, schema.Users.Email)
	return repository.findOne(context, "find_by_email", query, email)
}

/*
Update synchronizes the mutable fields of user with the database.

Description: The unique indexes still guard against a concurrent writer that
claimed the same username or email after the service checked it.
*/
func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
		RETURNING %s`,
		schema.Users.Table,
		schema.Users.Username, schema.Users.Email, schema.Users.Password, schema.Users.UpdatedAt,
		schema.Users.ID,
		schema.Users.ColumnList(),
	)

	row := repository.db.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.UpdatedAt,
	)

	if err := scanUser(row, user); err != nil {
		if dberr.IsNoRows(err) {
			return dberr.ErrNotFound
		}
		if duplicate := duplicateFromConstraint(err, OperationUpdate); duplicate != nil {
			return duplicate
		}
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}

	return nil
}

// UsernameTaken checks for another account holding username.
func (repository *PostgresRepository) UsernameTaken(context context.Context, username, exceptID string) (bool, error) {
	return repository.exists(context, "username_taken", takenQuery(schema.Users.Username), username, exceptID)
}

// EmailTaken checks for another account holding email.
func (repository *PostgresRepository) EmailTaken(context context.Context, email, exceptID string) (bool, error) {
	return repository.exists(context, "email_taken", takenQuery(schema.Users.Email), email, exceptID)
}

// # Helpers

func (repository *PostgresRepository) findOne(context context.Context, operation, query string, value string) (*User, error) {
	user := &User{}
	if err := scanUser(repository.db.QueryRow(context, query, value), user); err != nil {
		if dberr.IsNoRows(err) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, err)
	}
	return user, nil
}

func (repository *PostgresRepository) exists(context context.Context, operation, query string, args ...any) (bool, error) {
	var found bool
	if err := repository.db.QueryRow(context, query, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("postgres_user_repo_%s_failed: %w", operation, err)
	}
	return found, nil
}

// takenQuery checks column case-insensitively, ignoring the account with ID $2.
// An empty $2 never matches a UUID, so nothing is ignored.
func takenQuery(column string) string {
	return fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE LOWER(%s) = LOWER($1) AND %s::text <> $2)`,
		schema.Users.Table, column, schema.Users.ID)
}

func scanUser(row pgx.Row, user *User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// duplicateFromConstraint maps a unique violation on the users indexes to
// the field-specific ValidationError. It returns nil for any other error.
func duplicateFromConstraint(err error, operation Operation) error {
	constraint, ok := dberr.UniqueViolation(err)
	if !ok {
		return nil
	}

	switch constraint {
	case schema.Users.UsernameLowerKey:
		return DuplicateError(FieldUsername, operation).WithCause(err)
	case schema.Users.EmailLowerKey:
		return DuplicateError(FieldEmail, operation).WithCause(err)
	default:
		return nil
	}
}
