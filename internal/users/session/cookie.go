// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"net/http"
	"time"

	"github.com/taibuivan/portal/internal/platform/constants"
	"github.com/taibuivan/portal/internal/platform/ctxutil"
	"github.com/taibuivan/portal/internal/platform/respond"
)

// # Cookie Helpers

// TokenFromRequest returns the session cookie value, or "" when absent.
func TokenFromRequest(request *http.Request) string {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetCookie writes the session cookie with Max-Age equal to ttl.
func SetCookie(writer http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie instructs the client to drop the session cookie.
func ClearCookie(writer http.ResponseWriter, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "invalid",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// # Cookie Binder

// Lifecycle is the part of [Service] the binder drives.
type Lifecycle interface {
	FindValidByToken(context context.Context, token string) (*Session, error)
	Renew(context context.Context, id string) (*Session, error)
	TTL() time.Duration
}

// Binder binds the session cookie to the request identity.
type Binder struct {
	sessions Lifecycle
	secure   bool
}

// NewBinder builds a [Binder]. secure marks re-issued cookies as HTTPS-only.
func NewBinder(sessions Lifecycle, secure bool) *Binder {
	return &Binder{sessions: sessions, secure: secure}
}

/*
Middleware authenticates the request from its session cookie.

Description: A missing cookie short-circuits with 401. Otherwise the token is
resolved, the session found is renewed by its own ID (never a client-supplied
one), and the cookie is re-issued with the same token and a full Max-Age.
The identity is then injected into the request context.
*/
func (binder *Binder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		token := TokenFromRequest(request)
		if token == "" {
			respond.Error(writer, request, ErrNoActiveSession)
			return
		}

		found, err := binder.sessions.FindValidByToken(ctx, token)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		renewed, err := binder.sessions.Renew(ctx, found.ID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		SetCookie(writer, renewed.Token, binder.sessions.TTL(), binder.secure)

		ctx = ctxutil.WithIdentity(ctx, &ctxutil.Identity{UserID: renewed.UserID, SessionID: renewed.ID})
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
