// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// UserRepository defines the data access contract for user accounts.
//
// # Lookup Contract
//
// Find methods report an absent row as a plain (nil, nil) result, never as an
// error. Only genuine connectivity/query failures produce an error, already
// wrapped as an internal [apperr.AppError]. Callers decide what "not found"
// means for their use case (404, 401, conflict check).
//
// # Implementations
//
// The canonical implementation is PostgreSQL (store_postgres.go).
type UserRepository interface {
	// FindByID returns the account with the given ID, or nil if absent.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email, or nil if absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new user account.
	//
	// The duplicate-email check happens in the service BEFORE this call;
	// the schema's unique index is the hard backstop.
	Create(ctx context.Context, user *User) error

	// Update persists changes to the account's mutable fields (email).
	Update(ctx context.Context, user *User) error

	// Delete permanently removes the account row.
	Delete(ctx context.Context, id string) error
}
