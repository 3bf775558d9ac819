// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// Resources are written as flat JSON objects. Errors are always written in the
// four-field shape produced by [apperr.Error.Public], and every server-side
// fault is logged with its cause before the response goes out.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/portal/internal/platform/apperr"
	"github.com/taibuivan/portal/internal/platform/ctxutil"
)

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, data)
}

// Created writes a 201 Created response.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, data)
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	appError := apperr.As(err)
	if appError == nil {
		// Unexpected error: keep the detail in the logs, hide it from the client.
		appError = apperr.Internal(err)
	}

	if appError.StatusCode() >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "api_server_error",
			slog.String("name", string(appError.Kind)),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.StatusCode(), appError.Public())
}
