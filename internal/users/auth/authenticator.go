// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth verifies credentials and exposes the login, logout and
current-user endpoints.

A wrong email and a wrong password fail with the same UnauthorizedError at
the boundary. The precise reason is kept as the error cause and logged at debug
level only.
*/
package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/portal/internal/platform/apperr"
	"github.com/taibuivan/portal/internal/platform/ctxutil"
	"github.com/taibuivan/portal/internal/users/user"
)

// # Contracts & Types

// UserFinder resolves members by email.
type UserFinder interface {
	FindByEmail(context context.Context, email string) (*user.User, error)
}

// PasswordComparer verifies a plaintext against a stored hash.
type PasswordComparer interface {
	Compare(plaintext, hashed string) bool
}

// # Domain Errors

// ErrInvalidCredentials is the only error a caller sees for bad credentials.
var ErrInvalidCredentials = apperr.Unauthorized(
	"Dados de autenticação não conferem.",
	"Verifique se os dados enviados estão corretos",
)

var (
	errEmailMismatch    = apperr.Unauthorized("Email não confere.", "Verifique se este dado está correto.")
	errPasswordMismatch = apperr.Unauthorized("Senha não confere.", "Verifique se este dado está correto")
)

// Authenticator composes the user store and the password hasher.
type Authenticator struct {
	users     UserFinder
	passwords PasswordComparer
}

// NewAuthenticator builds an [Authenticator].
func NewAuthenticator(users UserFinder, passwords PasswordComparer) *Authenticator {
	return &Authenticator{users: users, passwords: passwords}
}

/*
GetAuthenticatedUser returns the member owning email if password matches.

Returns:
  - *user.User: The authenticated member
  - error: [ErrInvalidCredentials] for an unknown email or a wrong password,
    storage errors otherwise
*/
func (authenticator *Authenticator) GetAuthenticatedUser(context context.Context, email, password string) (*user.User, error) {
	found, err := authenticator.users.FindByEmail(context, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, authenticator.reject(context, errEmailMismatch)
		}
		return nil, err
	}

	if !authenticator.passwords.Compare(password, found.Password) {
		return nil, authenticator.reject(context, errPasswordMismatch)
	}

	return found, nil
}

// reject logs the precise reason and returns the generic error.
func (authenticator *Authenticator) reject(context context.Context, reason *apperr.Error) error {
	ctxutil.GetLogger(context).DebugContext(context, "authentication_rejected",
		slog.String("reason", reason.Message),
	)
	return ErrInvalidCredentials.WithCause(reason)
}
