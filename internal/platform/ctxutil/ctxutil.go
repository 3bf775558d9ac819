// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/portal/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity

// Identity is the authenticated principal resolved from a session cookie.
type Identity struct {
	UserID    string
	SessionID string
}

// IdentityRecorder is a per-request slot that outer middleware can read after
// inner handlers resolved the identity.
type IdentityRecorder struct {
	identity *Identity
}

// Identity returns the recorded identity or nil.
func (r *IdentityRecorder) Identity() *Identity {
	return r.identity
}

// WithIdentityRecorder attaches an empty [IdentityRecorder] to the context.
func WithIdentityRecorder(ctx context.Context) (context.Context, *IdentityRecorder) {
	recorder := &IdentityRecorder{}
	return context.WithValue(ctx, ctxkey.KeyIdentityRecorder, recorder), recorder
}

// WithIdentity returns a new context carrying identity. If an
// [IdentityRecorder] is present, the identity is also recorded there.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	if recorder, ok := ctx.Value(ctxkey.KeyIdentityRecorder).(*IdentityRecorder); ok && recorder != nil {
		recorder.identity = identity
	}
	return context.WithValue(ctx, ctxkey.KeyIdentity, identity)
}

// GetIdentity retrieves the [*Identity] from the [context.Context].
func GetIdentity(ctx context.Context) *Identity {
	identity, ok := ctx.Value(ctxkey.KeyIdentity).(*Identity)
	if !ok {
		return nil
	}
	return identity
}
