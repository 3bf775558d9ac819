// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements opaque cookie sessions with sliding expiration.

A session is VALID while expires_at is strictly after the current time and
EXPIRED otherwise. Every authenticated request that resolves a valid session
pushes expires_at to now + TTL. Nothing moves a session from EXPIRED back to
VALID, and no background sweep deletes expired rows.

# Architecture

  - Entity: [Session], whose token is the bearer credential (distinct from ID).
  - Repository: storage contract with PostgreSQL and Redis implementations.
  - Service: create, find-valid, renew and expire use cases over an injected clock.
  - Binder: HTTP middleware that reads, renews and re-issues the cookie.
*/
package session

import (
	"time"

	"github.com/taibuivan/portal/internal/platform/apperr"
)

// # Domain Entities

// Session represents an authenticated login.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidAt reports whether the session is still valid at instant now.
func (s *Session) IsValidAt(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// # Domain Errors

// ErrNoActiveSession is returned for a missing, unknown or expired token.
// The three cases are deliberately indistinguishable to the caller.
var ErrNoActiveSession = apperr.NoActiveSession()

// expiredOffset is how far in the past expireByID moves expires_at.
const expiredOffset = -365 * 24 * time.Hour
