// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names the tables, columns and unique indexes created by the
SQL migrations, so repositories and error mapping agree on one spelling.
*/
package schema

import "strings"

// UsersTable represents the 'users' table.
type UsersTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	Password  string
	CreatedAt string
	UpdatedAt string

	// Unique indexes on LOWER(username) and LOWER(email).
	UsernameLowerKey string
	EmailLowerKey    string
}

// Users is the schema definition for users.
var Users = UsersTable{
	Table:            "users",
	ID:               "id",
	Username:         "username",
	Email:            "email",
	Password:         "password",
	CreatedAt:        "created_at",
	UpdatedAt:        "updated_at",
	UsernameLowerKey: "users_username_lower_key",
	EmailLowerKey:    "users_email_lower_key",
}

// Columns returns all column names in scan order.
func (t UsersTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.Password, t.CreatedAt, t.UpdatedAt}
}

// ColumnList returns Columns joined for a SELECT or RETURNING clause.
func (t UsersTable) ColumnList() string {
	return strings.Join(t.Columns(), ", ")
}
