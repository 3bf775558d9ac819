// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"time"
)

// # Session Data Access

// Repository defines the data access contract for sessions.
//
// Time is always passed in by the caller so validity and renewal are judged
// against the same clock. Misses return [dberr.ErrNotFound].
type Repository interface {

	/*
		Create persists a new session.

		Parameters:
		  - context: context.Context
		  - session: *Session (fully populated, including timestamps)

		Returns:
		  - error: Persistence failures, including an unknown user_id
	*/
	Create(context context.Context, session *Session) error

	/*
		FindValidByToken returns the session for token if expires_at > now.

		Parameters:
		  - context: context.Context
		  - token: string
		  - now: time.Time

		Returns:
		  - *Session: Hydrated entity
		  - error: dberr.ErrNotFound for unknown or expired tokens
	*/
	FindValidByToken(context context.Context, token string, now time.Time) (*Session, error)

	/*
		Renew moves expires_at and updated_at of the session with the given ID,
		only while the session is still valid at now. An expired session is
		never brought back.

		Parameters:
		  - context: context.Context
		  - id: string
		  - now: time.Time (validity instant and new updated_at)
		  - expiresAt: time.Time (new expires_at)

		Returns:
		  - *Session: Updated entity
		  - error: dberr.ErrNotFound for unknown or expired sessions
	*/
	Renew(context context.Context, id string, now, expiresAt time.Time) (*Session, error)

	/*
		Touch moves expires_at and updated_at of the session with the given ID
		regardless of its current validity. Used to expire a session.

		Parameters:
		  - context: context.Context
		  - id: string
		  - now: time.Time (new updated_at)
		  - expiresAt: time.Time (new expires_at)

		Returns:
		  - *Session: Updated entity
		  - error: dberr.ErrNotFound or persistence failures
	*/
	Touch(context context.Context, id string, now, expiresAt time.Time) (*Session, error)
}
