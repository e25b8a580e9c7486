// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pet

import "context"

// Repository defines the data access contract for pet records.
//
// # Ownership Scoping
//
// Every method that addresses a single record takes the owner's userID and
// filters by `id AND user_id`. A row owned by another user is reported
// exactly like a missing row: FindByID returns (nil, nil). This keeps the
// existence of foreign records unobservable.
//
// # Lookup Contract
//
// As with [auth.UserRepository], an absent row is a plain (nil, nil) result;
// errors are reserved for genuine database failures.
type Repository interface {
	// ListByUser returns all pets owned by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Pet, error)

	// FindByID returns the pet with the given id owned by userID,
	// or nil if no such row is visible to this user.
	FindByID(ctx context.Context, id, userID string) (*Pet, error)

	// Create persists a new pet record.
	Create(ctx context.Context, pet *Pet) error

	// Update persists changes to an existing record, scoped by owner.
	Update(ctx context.Context, pet *Pet) error

	// Delete removes the record with the given id owned by userID.
	Delete(ctx context.Context, id, userID string) error
}

// PhotoStorage defines the object-storage contract for pet photos.
//
// The canonical implementation is the S3-compatible client in
// internal/platform/storage; tests substitute an in-memory fake.
type PhotoStorage interface {
	// Upload stores data under key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
