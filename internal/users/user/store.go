// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import "context"

// # User Data Access

// Repository defines the data access contract for user accounts.
//
// Lookups return [dberr.ErrNotFound] when no row matches. Writes that collide
// with the case-insensitive unique indexes return the matching [DuplicateError].
type Repository interface {

	/*
		Create persists a brand-new user and refreshes it with the stored values.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: ValidationError on duplicates, persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account whose username matches case-insensitively.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account whose email matches case-insensitively.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Update persists username, email, password and updated_at of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: ValidationError on duplicates, dberr.ErrNotFound, persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UsernameTaken reports whether another account already uses username.

		Parameters:
		  - context: context.Context
		  - username: string
		  - exceptID: string (account to ignore, empty for none)

		Returns:
		  - bool: true when a different account holds the value
		  - error: retrieval failures
	*/
	UsernameTaken(context context.Context, username, exceptID string) (bool, error)

	/*
		EmailTaken reports whether another account already uses email.

		Parameters:
		  - context: context.Context
		  - email: string
		  - exceptID: string (account to ignore, empty for none)

		Returns:
		  - bool: true when a different account holds the value
		  - error: retrieval failures
	*/
	EmailTaken(context context.Context, email, exceptID string) (bool, error)
}
