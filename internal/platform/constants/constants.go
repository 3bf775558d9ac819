// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, header names, and cookie configuration that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Transport: Header names used by middleware.
  - Session: Cookie name and Redis key prefixes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "portal-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Transport Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Session

const (
	// SessionCookieName is the cookie carrying the opaque session token.
	SessionCookieName = "session_id"

	// SessionCookiePath scopes the session cookie to the whole site.
	SessionCookiePath = "/"

	// DefaultSessionTTL is the sliding expiration window of a session.
	DefaultSessionTTL = 30 * 24 * time.Hour

	// SessionTokenBytes is the amount of entropy in a session token (hex encoded to 96 chars).
	SessionTokenBytes = 48
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession      = "auth:session:"
	RedisPrefixSessionToken = "auth:session_token:"
)
