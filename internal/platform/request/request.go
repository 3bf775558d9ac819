// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/portal/internal/platform/apperr"
	"github.com/taibuivan/portal/internal/platform/ctxutil"
	"github.com/taibuivan/portal/internal/platform/validate"
)

// maxBodyBytes caps JSON payloads accepted by handlers.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

An empty body leaves target untouched and is not an error, so handlers can
resolve path resources (and answer 404) before judging the payload.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	if request.Body == nil {
		return nil
	}

	body := http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredIdentity ensures the request carries a resolved session identity.

Returns:
  - *ctxutil.Identity: The authenticated identity
  - error: UnauthorizedError if no session was resolved
*/
func RequiredIdentity(request *http.Request) (*ctxutil.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.NoActiveSession()
	}
	return identity, nil
}
