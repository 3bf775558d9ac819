// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/portal/internal/platform/dberr"
	"github.com/taibuivan/portal/internal/users/user"
)

// memoryRepository is an in-memory [user.Repository] with the same
// case-insensitive semantics as the LOWER() indexes.
type memoryRepository struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: map[string]*user.User{}}
}

func (repository *memoryRepository) Create(_ context.Context, entity *user.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.takenLocked(func(u *user.User) string { return u.Username }, entity.Username, "") {
		return user.DuplicateError(user.FieldUsername, user.OperationCreate)
	}
	if repository.takenLocked(func(u *user.User) string { return u.Email }, entity.Email, "") {
		return user.DuplicateError(user.FieldEmail, user.OperationCreate)
	}

	stored := *entity
	repository.users[entity.ID] = &stored
	return nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*user.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if found, ok := repository.users[id]; ok {
		clone := *found
		return &clone, nil
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryRepository) FindByUsername(_ context.Context, username string) (*user.User, error) {
	return repository.findBy(func(u *user.User) string { return u.Username }, username)
}

func (repository *memoryRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	return repository.findBy(func(u *user.User) string { return u.Email }, email)
}

func (repository *memoryRepository) Update(_ context.Context, entity *user.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[entity.ID]; !ok {
		return dberr.ErrNotFound
	}
	if repository.takenLocked(func(u *user.User) string { return u.Username }, entity.Username, entity.ID) {
		return user.DuplicateError(user.FieldUsername, user.OperationUpdate)
	}
	if repository.takenLocked(func(u *user.User) string { return u.Email }, entity.Email, entity.ID) {
		return user.DuplicateError(user.FieldEmail, user.OperationUpdate)
	}

	stored := *entity
	repository.users[entity.ID] = &stored
	return nil
}

func (repository *memoryRepository) UsernameTaken(_ context.Context, username, exceptID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.takenLocked(func(u *user.User) string { return u.Username }, username, exceptID), nil
}

func (repository *memoryRepository) EmailTaken(_ context.Context, email, exceptID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.takenLocked(func(u *user.User) string { return u.Email }, email, exceptID), nil
}

func (repository *memoryRepository) findBy(column func(*user.User) string, value string) (*user.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, candidate := range repository.users {
		if strings.EqualFold(column(candidate), value) {
			clone := *candidate
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryRepository) takenLocked(column func(*user.User) string, value, exceptID string) bool {
	for id, candidate := range repository.users {
		if id != exceptID && strings.EqualFold(column(candidate), value) {
			return true
		}
	}
	return false
}

// stubHasher makes hashes readable in assertions.
type stubHasher struct{}

func (stubHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

// fakeClock is a manually advanced clock.
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
