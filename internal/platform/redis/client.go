// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis builds the go-redis client used by the Redis session store.

Each session is two keys (record and token index) that expire together with
the session window. Writes are MULTI/EXEC blocks and renewals WATCH the record
key, so the client here only has to provide a correctly tuned connection pool,
bounded timeouts, and a startup connectivity check.

Usage:

	client, err := redis.NewClient(ctx, cfg.RedisURL, logger)
	repository := session.NewRedisRepository(client)
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/portal/internal/platform/constants"
)

// Session lookups sit on the hot path of every authenticated request, so
// timeouts are short and the pool keeps a few warm connections.
const (
	poolSize      = 10
	minIdleConns  = 2
	maxIdleConns  = 5
	dialTimeout   = 3 * time.Second
	commandTimeout = 2 * time.Second
	pingTimeout   = 2 * time.Second
)

// NewClient parses redisURL, applies the session-store tuning, and pings the
// server before returning.
func NewClient(context stdctx.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := Options(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: %s unreachable: %w", options.Addr, err)
	}

	logger.Info("redis_session_store_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Options returns the client options for redisURL. Values given in the URL
// query (pool_size, dial_timeout, ...) are replaced by the session-store tuning.
func Options(redisURL string) (*redis.Options, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.ClientName = constants.AppName
	options.PoolSize = poolSize
	options.MinIdleConns = minIdleConns
	options.MaxIdleConns = maxIdleConns
	options.DialTimeout = dialTimeout
	options.ReadTimeout = commandTimeout
	options.WriteTimeout = commandTimeout

	// Honor request deadlines so a slow Redis fails the request, not the pool.
	options.ContextTimeoutEnabled = true

	return options, nil
}

// Ping reports whether the server answers within pingTimeout.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
