// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/portal/internal/platform/dberr"
	"github.com/taibuivan/portal/internal/users/session"
)

type memoryRepository struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{sessions: map[string]session.Session{}}
}

func (repository *memoryRepository) Create(_ context.Context, s *session.Session) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.sessions[s.ID] = *s
	return nil
}

func (repository *memoryRepository) FindValidByToken(_ context.Context, token string, now time.Time) (*session.Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, stored := range repository.sessions {
		if stored.Token == token && stored.IsValidAt(now) {
			found := stored
			return &found, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryRepository) Renew(_ context.Context, id string, now, expiresAt time.Time) (*session.Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.sessions[id]
	if !ok || !stored.IsValidAt(now) {
		return nil, dberr.ErrNotFound
	}
	stored.ExpiresAt = expiresAt
	stored.UpdatedAt = now
	repository.sessions[id] = stored
	return &stored, nil
}

func (repository *memoryRepository) Touch(_ context.Context, id string, now, expiresAt time.Time) (*session.Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.sessions[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	stored.ExpiresAt = expiresAt
	stored.UpdatedAt = now
	repository.sessions[id] = stored
	return &stored, nil
}

func (repository *memoryRepository) get(id string) session.Session {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.sessions[id]
}

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
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
