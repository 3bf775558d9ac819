// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package password hashes and verifies user credentials with bcrypt.

Each hash embeds its own random salt, so hashing the same plaintext twice
yields two different strings. Both operations cost tens of milliseconds at
the default cost factor and should stay off hot paths.
*/
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher builds a [Hasher]. Out-of-range costs fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the salted bcrypt hash of plaintext.
func (hasher *Hasher) Hash(plaintext string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("password: failed to hash: %w", err)
	}
	return string(hashedBytes), nil
}

// Compare reports whether plaintext matches hashed.
// A malformed hash is treated as a mismatch.
func (hasher *Hasher) Compare(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
