// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/portal/internal/platform/constants"
	"github.com/taibuivan/portal/internal/platform/dberr"
	"github.com/taibuivan/portal/pkg/uuid"
)

// Service implements the session lifecycle.
type Service struct {
	repository Repository
	ttl        time.Duration
	now        func() time.Time
}

// NewService constructs a [Service].
//
// A non-positive ttl falls back to [constants.DefaultSessionTTL] and a nil
// clock defaults to time.Now.
func NewService(repository Repository, ttl time.Duration, now func() time.Time) *Service {
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repository: repository, ttl: ttl, now: now}
}

// TTL is the sliding expiration window.
func (service *Service) TTL() time.Duration {
	return service.ttl
}

/*
Create opens a new session for userID.

Description: Generates a fresh high-entropy token and sets
expires_at = now + TTL.
*/
func (service *Service) Create(context context.Context, userID string) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := service.now().UTC()
	session := &Session{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(service.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repository.Create(context, session); err != nil {
		return nil, err
	}

	return session, nil
}

/*
FindValidByToken returns the session for token if it has not expired.

Returns:
  - error: [ErrNoActiveSession] for an empty, unknown or expired token
*/
func (service *Service) FindValidByToken(context context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoActiveSession
	}

	session, err := service.repository.FindValidByToken(context, token, service.now().UTC())
	if err != nil {
		return nil, noActiveSession(err)
	}

	return session, nil
}

// Renew slides the session window: updated_at = now, expires_at = now + TTL.
// A session that expired in the meantime, for instance by a concurrent
// logout, is reported as [ErrNoActiveSession].
func (service *Service) Renew(context context.Context, id string) (*Session, error) {
	now := service.now().UTC()

	session, err := service.repository.Renew(context, id, now, now.Add(service.ttl))
	if err != nil {
		return nil, noActiveSession(err)
	}

	return session, nil
}

// ExpireByID invalidates a session at once by moving expires_at one year back.
func (service *Service) ExpireByID(context context.Context, id string) (*Session, error) {
	now := service.now().UTC()

	session, err := service.repository.Touch(context, id, now, now.Add(expiredOffset))
	if err != nil {
		return nil, noActiveSession(err)
	}

	return session, nil
}

// # Helpers

// generateToken returns SessionTokenBytes of crypto/rand entropy, hex encoded.
func generateToken() (string, error) {
	buffer := make([]byte, constants.SessionTokenBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("session_token_generation_failed: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

func noActiveSession(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return ErrNoActiveSession.WithCause(err)
	}
	return err
}
