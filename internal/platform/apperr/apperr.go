// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error taxonomy for the portal API.

Every error surfaced to a client is one of five kinds. Each kind carries a
client-safe message, a suggested action, its HTTP status code, and an optional
cause that is only ever written to the server log.

Architecture:

  - Error: a tagged value (Kind + message + action + status).
  - Public: the explicit four-field wire shape {name, message, action, status_code}.
  - Mapping: each Kind maps to exactly one HTTP status code.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Kinds

// Kind tags an [Error] with its class. The string value is the wire "name".
type Kind string

const (
	KindValidation       Kind = "ValidationError"
	KindUnauthorized     Kind = "UnauthorizedError"
	KindNotFound         Kind = "NotFoundError"
	KindMethodNotAllowed Kind = "MethodNotAllowedError"
	KindInternal         Kind = "InternalServerError"
)

// Status returns the HTTP status code associated with the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// # Error Type

// Error is the canonical error type of the API.
//
// # Security
//
// Cause is for server-side logging only and is never serialized.
type Error struct {
	Kind    Kind
	Message string
	Action  string
	Cause   error
}

// Public is the JSON shape of every error response.
type Public struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	Action     string `json:"action"`
	StatusCode int    `json:"status_code"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *Error) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *Error) Unwrap() error { return e.Cause }

// StatusCode is the HTTP status of the error.
func (e *Error) StatusCode() int { return e.Kind.Status() }

// Public converts the error into its wire representation.
func (e *Error) Public() Public {
	return Public{
		Name:       string(e.Kind),
		Message:    e.Message,
		Action:     e.Action,
		StatusCode: e.StatusCode(),
	}
}

// WithCause returns a copy of e carrying cause for server-side logging.
func (e *Error) WithCause(cause error) *Error {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Constructors

// Validation creates a 400 error for caller-correctable input conflicts.
func Validation(message, action string) *Error {
	return &Error{Kind: KindValidation, Message: message, Action: action}
}

// Unauthorized creates a 401 error. Messages must stay generic.
func Unauthorized(message, action string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Action: action}
}

// NotFound creates a 404 error for a referenced resource that does not exist.
func NotFound(message, action string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Action: action}
}

// MethodNotAllowed creates the 405 error returned for unsupported verbs.
func MethodNotAllowed() *Error {
	return &Error{
		Kind:    KindMethodNotAllowed,
		Message: "Método não permitido para este endpoint.",
		Action:  "Verifique se o método HTTP é válido para este endpoint.",
	}
}

// NoActiveSession creates the 401 error returned whenever a request carries no
// valid session, whether the cookie is missing, unknown or expired.
func NoActiveSession() *Error {
	return Unauthorized(
		"Usuário não possui sessão ativa",
		"Verifique se este usuário está logado e tente novamente",
	)
}

// Internal creates a 500 error wrapping an unexpected server-side fault.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: "Um erro interno não esperado ocorreu.",
		Action:  "Entre em contato com o suporte.",
		Cause:   cause,
	}
}

// # Helpers

// As extracts the [*Error] from err's chain. It returns nil if not found.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// Is reports whether err (or any error in its chain) is an [*Error] of the given kind.
func Is(err error, kind Kind) bool {
	appErr := As(err)
	return appErr != nil && appErr.Kind == kind
}
