// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portal/internal/platform/dberr"
	"github.com/taibuivan/portal/internal/users/session"
)

func newRedisRepository(t *testing.T) (*session.RedisRepository, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisRepository(client), server
}

/*
TestRedisRepository_Lifecycle walks create, find, renew and expire.
*/
func TestRedisRepository_Lifecycle(t *testing.T) {
	repository, server := newRedisRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	entity := sampleSession(now)

	require.NoError(t, repository.Create(ctx, entity))
	assert.Equal(t, testTTL, server.TTL("auth:session:"+entity.ID))
	assert.Equal(t, testTTL, server.TTL("auth:session_token:"+entity.Token))

	found, err := repository.FindValidByToken(ctx, entity.Token, now)
	require.NoError(t, err)
	assert.Equal(t, entity.ID, found.ID)
	assert.True(t, entity.ExpiresAt.Equal(found.ExpiresAt))

	// Renew one day later.
	later := now.Add(24 * time.Hour)
	renewed, err := repository.Renew(ctx, entity.ID, later, later.Add(testTTL))
	require.NoError(t, err)
	assert.True(t, renewed.ExpiresAt.Equal(later.Add(testTTL)))

	found, err = repository.FindValidByToken(ctx, entity.Token, later)
	require.NoError(t, err)
	assert.True(t, found.UpdatedAt.Equal(later))

	// Expire removes both keys.
	_, err = repository.Touch(ctx, entity.ID, later, later.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.False(t, server.Exists("auth:session:"+entity.ID))
	assert.False(t, server.Exists("auth:session_token:"+entity.Token))

	_, err = repository.FindValidByToken(ctx, entity.Token, later)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}

/*
TestRedisRepository_FindValidByToken_ClockExpired rejects a record past its window
even before Redis evicted it.
*/
func TestRedisRepository_FindValidByToken_ClockExpired(t *testing.T) {
	repository, _ := newRedisRepository(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	entity := sampleSession(now)
	require.NoError(t, repository.Create(context.Background(), entity))

	_, err := repository.FindValidByToken(context.Background(), entity.Token, entity.ExpiresAt)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}

/*
TestRedisRepository_Eviction treats keys dropped by Redis as not found.
*/
func TestRedisRepository_Eviction(t *testing.T) {
	repository, server := newRedisRepository(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	entity := sampleSession(now)
	require.NoError(t, repository.Create(context.Background(), entity))

	server.FastForward(testTTL + time.Second)

	_, err := repository.FindValidByToken(context.Background(), entity.Token, now)
	assert.ErrorIs(t, err, dberr.ErrNotFound)

	_, err = repository.Touch(context.Background(), entity.ID, now, now.Add(testTTL))
	assert.ErrorIs(t, err, dberr.ErrNotFound)

	_, err = repository.Renew(context.Background(), entity.ID, now, now.Add(testTTL))
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}

/*
TestRedisRepository_Renew_Expired refuses to slide a window that is already closed.
*/
func TestRedisRepository_Renew_Expired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("after expire", func(t *testing.T) {
		repository, server := newRedisRepository(t)
		entity := sampleSession(now)
		require.NoError(t, repository.Create(ctx, entity))

		_, err := repository.Touch(ctx, entity.ID, now, now.Add(-24*time.Hour))
		require.NoError(t, err)

		_, err = repository.Renew(ctx, entity.ID, now, now.Add(testTTL))
		assert.ErrorIs(t, err, dberr.ErrNotFound)
		assert.False(t, server.Exists("auth:session:"+entity.ID))
		assert.False(t, server.Exists("auth:session_token:"+entity.Token))
	})

	t.Run("clock past window", func(t *testing.T) {
		repository, _ := newRedisRepository(t)
		entity := sampleSession(now)
		require.NoError(t, repository.Create(ctx, entity))

		_, err := repository.Renew(ctx, entity.ID, entity.ExpiresAt, entity.ExpiresAt.Add(testTTL))
		assert.ErrorIs(t, err, dberr.ErrNotFound)
	})
}

/*
TestRedisRepository_Unavailable wraps connectivity failures.
*/
func TestRedisRepository_Unavailable(t *testing.T) {
	repository, server := newRedisRepository(t)
	server.Close()

	_, err := repository.FindValidByToken(context.Background(), "token", time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, dberr.ErrNotFound)
}
