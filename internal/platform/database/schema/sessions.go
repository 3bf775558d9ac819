// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// SessionsTable represents the 'sessions' table.
type SessionsTable struct {
	Table     string
	ID        string
	Token     string
	UserID    string
	ExpiresAt string
	CreatedAt string
	UpdatedAt string

	// UserIDForeignKey references users(id).
	UserIDForeignKey string
}

// Sessions is the schema definition for sessions.
var Sessions = SessionsTable{
	Table:            "sessions",
	ID:               "id",
	Token:            "token",
	UserID:           "user_id",
	ExpiresAt:        "expires_at",
	CreatedAt:        "created_at",
	UpdatedAt:        "updated_at",
	UserIDForeignKey: "sessions_user_id_fkey",
}

// Columns returns all column names in scan order.
func (t SessionsTable) Columns() []string {
	return []string{t.ID, t.Token, t.UserID, t.ExpiresAt, t.CreatedAt, t.UpdatedAt}
}

// ColumnList returns Columns joined for a SELECT or RETURNING clause.
func (t SessionsTable) ColumnList() string {
	return strings.Join(t.Columns(), ", ")
}
