// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/cases"

	"github.com/taibuivan/portal/internal/platform/dberr"
	"github.com/taibuivan/portal/pkg/pointer"
	"github.com/taibuivan/portal/pkg/uuid"
)

// # Contracts & Types

// PasswordHasher is the hashing half of the password package.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// Service implements the user store use cases.
type Service struct {
	repository Repository
	hasher     PasswordHasher
	now        func() time.Time
}

// NewService constructs a [Service]. A nil clock defaults to time.Now.
func NewService(repository Repository, hasher PasswordHasher, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repository: repository,
		hasher:     hasher,
		now:        now,
	}
}

// # Registration

// CreateInput holds the data required to register a new member.
type CreateInput struct {
	Username string
	Email    string
	Password string
}

/*
Create registers a new member.

Description: Rejects a username or email already in use (any letter case),
hashes the password and persists the record with a time-ordered ID.

Returns:
  - *User: Persisted entity with generated ID and timestamps
  - error: ValidationError on duplicates, or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*User, error) {
	if err := service.ensureUnique(context, FieldEmail, input.Email, "", OperationCreate); err != nil {
		return nil, err
	}
	if err := service.ensureUnique(context, FieldUsername, input.Username, "", OperationCreate); err != nil {
		return nil, err
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user_service_hash_failed: %w", err)
	}

	now := service.now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Lookups

// FindByUsername resolves a member by case-insensitive username.
func (service *Service) FindByUsername(context context.Context, username string) (*User, error) {
	user, err := service.repository.FindByUsername(context, username)
	return user, translateNotFound(err, FieldUsername)
}

// FindByEmail resolves a member by case-insensitive email.
func (service *Service) FindByEmail(context context.Context, email string) (*User, error) {
	user, err := service.repository.FindByEmail(context, email)
	return user, translateNotFound(err, FieldEmail)
}

// FindByID resolves a member by primary key.
func (service *Service) FindByID(context context.Context, id string) (*User, error) {
	if !uuid.Valid(id) {
		return nil, NotFoundError(FieldID)
	}
	user, err := service.repository.FindByID(context, id)
	return user, translateNotFound(err, FieldID)
}

// # Profile Update

// UpdateInput carries the fields to change. Nil fields are left untouched.
type UpdateInput struct {
	Username *string
	Email    *string
	Password *string
}

/*
Update applies a partial change to the member identified by username.

Description: The target must exist before anything else is judged. Each
present username/email is checked against every other account, so
re-submitting one's own value in any letter case is accepted. A present
password is re-hashed. updated_at always moves to the current time.

Returns:
  - *User: Updated entity
  - error: NotFoundError, ValidationError on duplicates, or storage errors
*/
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*User, error) {
	user, err := service.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && !service.sameFolded(*input.Username, user.Username) {
		if err := service.ensureUnique(context, FieldUsername, *input.Username, user.ID, OperationUpdate); err != nil {
			return nil, err
		}
	}

	if input.Email != nil && !service.sameFolded(*input.Email, user.Email) {
		if err := service.ensureUnique(context, FieldEmail, *input.Email, user.ID, OperationUpdate); err != nil {
			return nil, err
		}
	}

	// Merge only after every check passed.
	user.Username = pointer.Or(input.Username, user.Username)
	user.Email = pointer.Or(input.Email, user.Email)
	if input.Password != nil {
		hashedPassword, err := service.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("user_service_hash_failed: %w", err)
		}
		user.Password = hashedPassword
	}
	user.UpdatedAt = service.now().UTC()

	if err := service.repository.Update(context, user); err != nil {
		return nil, translateNotFound(err, FieldUsername)
	}

	return user, nil
}

// # Helpers

// ensureUnique fails with the field's DuplicateError when another account holds value.
func (service *Service) ensureUnique(context context.Context, field, value, exceptID string, operation Operation) error {
	var (
		taken bool
		err   error
	)

	switch field {
	case FieldUsername:
		taken, err = service.repository.UsernameTaken(context, value, exceptID)
	case FieldEmail:
		taken, err = service.repository.EmailTaken(context, value, exceptID)
	default:
		return fmt.Errorf("user_service_unknown_unique_field: %s", field)
	}

	if err != nil {
		return err
	}
	if taken {
		return DuplicateError(field, operation)
	}
	return nil
}

// sameFolded compares two values under Unicode case folding.
// A Caser is stateful, so one is built per call.
func (service *Service) sameFolded(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

func translateNotFound(err error, field string) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return NotFoundError(field)
	}
	return err
}
