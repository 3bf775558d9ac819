// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package user implements the registered-member store.

It owns the users table and enforces that no two members share a username or
an email under case-insensitive comparison. The application check exists to
produce a friendly error; the LOWER() unique indexes are the source of truth.

# Architecture

  - Entity: [User], with the password hash never serialized.
  - Repository: storage contract plus its PostgreSQL implementation.
  - Service: create, lookup and partial update use cases.
  - Handler: the /api/v1/users HTTP endpoints.
*/
package user

import (
	"fmt"
	"time"

	"github.com/taibuivan/portal/internal/platform/apperr"
)

// # Domain Entities

// User represents a registered member.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never serialized.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldID       = "id"
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// # Column Limits

const (
	MaxUsernameLength = 30
	MaxEmailLength    = 254

	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

// # Domain Errors

// Operation names the write that detected a duplicate, which changes the
// suggested action.
type Operation int

const (
	OperationCreate Operation = iota
	OperationUpdate
)

// DuplicateError builds the ValidationError for a username or email already in use.
func DuplicateError(field string, operation Operation) *apperr.Error {
	action := fmt.Sprintf("Utilize outro %s para realizar o cadastro.", field)
	if operation == OperationUpdate {
		action = fmt.Sprintf("Utilize outro %s para realizar esta operação.", field)
	}

	return apperr.Validation(fmt.Sprintf("O %s informado já está sendo utilizado.", field), action)
}

// NotFoundError builds the NotFoundError for a lookup on field.
func NotFoundError(field string) *apperr.Error {
	return apperr.NotFound(
		fmt.Sprintf("O %s informado não foi encontrado no sistema.", field),
		fmt.Sprintf("Verifique se o %s está digitado corretamente.", field),
	)
}
