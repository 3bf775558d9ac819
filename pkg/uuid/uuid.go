// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the google/uuid library to specifically generate Version 7 values,
which keep B-tree indexes on users.id and sessions.id append-only.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
