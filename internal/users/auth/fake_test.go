// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/portal/internal/platform/dberr"
	"github.com/taibuivan/portal/internal/users/password"
	"github.com/taibuivan/portal/internal/users/session"
	"github.com/taibuivan/portal/internal/users/user"
)

// userDirectory serves users by email and ID.
type userDirectory struct {
	users []*user.User
}

func (directory *userDirectory) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, candidate := range directory.users {
		if strings.EqualFold(candidate.Email, email) {
			return candidate, nil
		}
	}
	return nil, user.NotFoundError(user.FieldEmail)
}

func (directory *userDirectory) FindByID(_ context.Context, id string) (*user.User, error) {
	for _, candidate := range directory.users {
		if candidate.ID == id {
			return candidate, nil
		}
	}
	return nil, user.NotFoundError(user.FieldID)
}

func newDirectory(t *testing.T, hasher *password.Hasher, email, plaintext string) (*userDirectory, *user.User) {
	t.Helper()
	hashed, err := hasher.Hash(plaintext)
	require.NoError(t, err)

	member := &user.User{
		ID:       "0194c3a0-0000-7000-8000-000000000001",
		Username: "usuario",
		Email:    email,
		Password: hashed,
	}
	return &userDirectory{users: []*user.User{member}}, member
}

// sessionStore is an in-memory [session.Repository].
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: map[string]session.Session{}}
}

func (store *sessionStore) Create(_ context.Context, s *session.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[s.ID] = *s
	return nil
}

func (store *sessionStore) FindValidByToken(_ context.Context, token string, now time.Time) (*session.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, stored := range store.sessions {
		if stored.Token == token && stored.IsValidAt(now) {
			found := stored
			return &found, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *sessionStore) Renew(_ context.Context, id string, now, expiresAt time.Time) (*session.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	stored, ok := store.sessions[id]
	if !ok || !stored.IsValidAt(now) {
		return nil, dberr.ErrNotFound
	}
	stored.ExpiresAt = expiresAt
	stored.UpdatedAt = now
	store.sessions[id] = stored
	return &stored, nil
}

func (store *sessionStore) Touch(_ context.Context, id string, now, expiresAt time.Time) (*session.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	stored, ok := store.sessions[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	stored.ExpiresAt = expiresAt
	stored.UpdatedAt = now
	store.sessions[id] = stored
	return &stored, nil
}

func (store *sessionStore) get(id string) session.Session {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.sessions[id]
}

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = clock.current.Add(d)
}

func testHasher() *password.Hasher {
	return password.NewHasher(bcrypt.MinCost)
}
