// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional fields.

Partial updates decode absent JSON fields as nil pointers; these helpers turn
them back into values without nil checks at every call site.
*/
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Or dereferences p, or returns fallback when p is nil.
func Or[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
