// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/portal/internal/platform/request"
	"github.com/taibuivan/portal/internal/platform/respond"
	"github.com/taibuivan/portal/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the user registration and profile endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with user routes.
//
// # Endpoints
//   - POST  /           : Registers a new account.
//   - GET   /{username} : Public profile lookup.
//   - PATCH /{username} : Partial profile update.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/{username}", handler.get)
	router.Patch("/{username}", handler.update)

	return router
}

// # Request Payloads

type createRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

/*
Create handles the registration of a new account.

POST /api/v1/users

Response:
  - 201: User
  - 400: ValidationError: Bad input, duplicate username or email
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLength).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MaxBytes(FieldPassword, input.Password, MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Create(request.Context(), CreateInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Get returns the profile of a member.

GET /api/v1/users/{username}

Response:
  - 200: User
  - 404: NotFoundError: Unknown username
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.FindByUsername(request.Context(), requestutil.Param(request, FieldUsername))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Update applies a partial change to a member.

PATCH /api/v1/users/{username}

Description: The username in the path is resolved first, so an unknown
member answers 404 even when the body is empty.

Response:
  - 200: User
  - 400: ValidationError: Bad input, duplicate username or email
  - 404: NotFoundError: Unknown username
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, FieldUsername)

	if _, err := handler.service.FindByUsername(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.Username != nil {
		validator.Required(FieldUsername, *input.Username).
			MaxLen(FieldUsername, *input.Username, MaxUsernameLength)
	}
	if input.Email != nil {
		validator.Required(FieldEmail, *input.Email).
			MaxLen(FieldEmail, *input.Email, MaxEmailLength).
			Email(FieldEmail, *input.Email)
	}
	if input.Password != nil {
		validator.Required(FieldPassword, *input.Password).
			MaxBytes(FieldPassword, *input.Password, MaxPasswordBytes)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Update(request.Context(), username, UpdateInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
