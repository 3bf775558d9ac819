// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/portal/internal/platform/request"
	"github.com/taibuivan/portal/internal/platform/respond"
	"github.com/taibuivan/portal/internal/platform/validate"
	"github.com/taibuivan/portal/internal/users/session"
	"github.com/taibuivan/portal/internal/users/user"
)

// # Contracts & Types

// CredentialVerifier is satisfied by [Authenticator].
type CredentialVerifier interface {
	GetAuthenticatedUser(context context.Context, email, password string) (*user.User, error)
}

// SessionManager is the part of [session.Service] the handler needs.
type SessionManager interface {
	Create(context context.Context, userID string) (*session.Session, error)
	FindValidByToken(context context.Context, token string) (*session.Session, error)
	ExpireByID(context context.Context, id string) (*session.Session, error)
	TTL() time.Duration
}

// UserLookup resolves the member behind a session.
type UserLookup interface {
	FindByID(context context.Context, id string) (*user.User, error)
}

// # Definitions & Constructors

// Handler implements the session and current-user endpoints.
type Handler struct {
	credentials CredentialVerifier
	sessions    SessionManager
	users       UserLookup
	binder      *session.Binder
	secure      bool
}

// NewHandler constructs a new [Handler].
//
// secure marks issued cookies as HTTPS-only and must be true in production.
func NewHandler(credentials CredentialVerifier, sessions SessionManager, users UserLookup, binder *session.Binder, secure bool) *Handler {
	return &Handler{
		credentials: credentials,
		sessions:    sessions,
		users:       users,
		binder:      binder,
		secure:      secure,
	}
}

// SessionRoutes returns the router mounted at /sessions.
//
// # Endpoints
//   - POST   / : Login, issues the session cookie.
//   - DELETE / : Logout, expires the session and clears the cookie.
func (handler *Handler) SessionRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.login)
	router.Delete("/", handler.logout)

	return router
}

// UserRoutes returns the router mounted at /user.
//
// # Endpoints
//   - GET / : Current member, renews the session.
func (handler *Handler) UserRoutes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.binder.Middleware).Get("/", handler.currentUser)

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Login authenticates a member and opens a session.

POST /api/v1/sessions

Response:
  - 201: Session, with Set-Cookie session_id
  - 400: ValidationError: Missing fields
  - 401: UnauthorizedError: Credentials do not match
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(user.FieldEmail, input.Email).
		Required(user.FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	authenticated, err := handler.credentials.GetAuthenticatedUser(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.sessions.Create(request.Context(), authenticated.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session.SetCookie(writer, created.Token, handler.sessions.TTL(), handler.secure)
	respond.Created(writer, created)
}

/*
Logout terminates the session carried by the cookie.

DELETE /api/v1/sessions

Response:
  - 200: Session: The expired record
  - 401: UnauthorizedError: No active session
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.sessions.FindValidByToken(request.Context(), session.TokenFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	expired, err := handler.sessions.ExpireByID(request.Context(), found.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session.ClearCookie(writer, handler.secure)
	respond.OK(writer, expired)
}

/*
CurrentUser returns the member owning the session.

GET /api/v1/user

Description: The binder has already renewed the session and re-issued the
cookie by the time this runs.

Response:
  - 200: User
  - 401: UnauthorizedError: No active session
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	current, err := handler.users.FindByID(request.Context(), identity.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, current)
}
