// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/portal/internal/platform/constants"
	"github.com/taibuivan/portal/internal/platform/dberr"
)

// # Redis Session Repository

// RedisRepository implements [Repository] on Redis.
//
// Two keys are written per session: the ID key holds the JSON record and the
// token key holds the ID. Both expire with the session, so Redis evicts
// expired sessions on its own. Validity is still checked against the caller's
// clock on every read.
type RedisRepository struct {
	client redis.UniversalClient
}

// NewRedisRepository creates a new Redis-backed [Repository].
func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client}
}

// Create stores both keys with a TTL matching the session's remaining lifetime.
func (repository *RedisRepository) Create(context context.Context, session *Session) error {
	if err := repository.write(context, session, session.ExpiresAt.Sub(session.UpdatedAt)); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

// FindValidByToken resolves token to its session and rejects expired ones.
func (repository *RedisRepository) FindValidByToken(context context.Context, token string, now time.Time) (*Session, error) {
	id, err := repository.client.Get(context, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("redis_session_find_valid_by_token_failed: %w", err)
	}

	session, err := repository.load(context, id)
	if err != nil {
		return nil, err
	}

	if session.Token != token || !session.IsValidAt(now) {
		return nil, dberr.ErrNotFound
	}

	return session, nil
}

// renewAttempts bounds optimistic retries when the record changes under WATCH.
const renewAttempts = 3

// Renew rewrites the record with the new window only while it is still valid
// at now. The record key is watched, so a concurrent expire aborts the write
// instead of resurrecting the deleted keys.
func (repository *RedisRepository) Renew(context context.Context, id string, now, expiresAt time.Time) (*Session, error) {
	var renewed *Session

	renew := func(tx *redis.Tx) error {
		session, err := decodeSession(tx.Get(context, idKey(id)).Bytes())
		if err != nil {
			return err
		}
		if !session.IsValidAt(now) {
			return dberr.ErrNotFound
		}

		session.ExpiresAt = expiresAt
		session.UpdatedAt = now

		payload, err := json.Marshal(session)
		if err != nil {
			return err
		}

		ttl := expiresAt.Sub(now)
		if ttl <= 0 {
			return fmt.Errorf("non-positive ttl %s for session %s", ttl, session.ID)
		}

		_, err = tx.TxPipelined(context, func(pipe redis.Pipeliner) error {
			setPair(context, pipe, session, payload, ttl)
			return nil
		})
		if err == nil {
			renewed = session
		}
		return err
	}

	for range renewAttempts {
		err := repository.client.Watch(context, renew, idKey(id))
		switch {
		case err == nil:
			return renewed, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, dberr.ErrNotFound):
			return nil, err
		default:
			return nil, fmt.Errorf("redis_session_renew_failed: %w", err)
		}
	}

	return nil, fmt.Errorf("redis_session_renew_conflict: %w", redis.TxFailedErr)
}

// Touch rewrites the record with the new window. A window already in the
// past removes both keys and still returns the updated record.
func (repository *RedisRepository) Touch(context context.Context, id string, now, expiresAt time.Time) (*Session, error) {
	session, err := repository.load(context, id)
	if err != nil {
		return nil, err
	}

	session.ExpiresAt = expiresAt
	session.UpdatedAt = now

	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		if err := repository.client.Del(context, idKey(session.ID), tokenKey(session.Token)).Err(); err != nil {
			return nil, fmt.Errorf("redis_session_touch_failed: %w", err)
		}
		return session, nil
	}

	if err := repository.write(context, session, ttl); err != nil {
		return nil, fmt.Errorf("redis_session_touch_failed: %w", err)
	}
	return session, nil
}

// # Helpers

func (repository *RedisRepository) load(context context.Context, id string) (*Session, error) {
	return decodeSession(repository.client.Get(context, idKey(id)).Bytes())
}

func decodeSession(raw []byte, err error) (*Session, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("redis_session_load_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}
	return session, nil
}

// write stores both keys atomically in a MULTI/EXEC block.
func (repository *RedisRepository) write(context context.Context, session *Session, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("non-positive ttl %s for session %s", ttl, session.ID)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		setPair(context, pipe, session, payload, ttl)
		return nil
	})
	return err
}

// setPair queues the record and token keys with the same TTL.
func setPair(context context.Context, pipe redis.Pipeliner, session *Session, payload []byte, ttl time.Duration) {
	pipe.Set(context, idKey(session.ID), payload, ttl)
	pipe.Set(context, tokenKey(session.Token), session.ID, ttl)
}

func idKey(id string) string {
	return constants.RedisPrefixSession + id
}

func tokenKey(token string) string {
	return constants.RedisPrefixSessionToken + token
}
