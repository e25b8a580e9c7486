// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pet implements the per-user pet record resource.
//
// Every pet belongs to exactly one user. All reads, updates, and deletes are
// scoped by both the record ID and the owner's user ID — a record owned by
// someone else is indistinguishable from a record that does not exist.
package pet

import "time"

// Pet represents a pet record owned by a single user.
type Pet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed"`
	OwnerName string    `json:"owner_name"`
	Phone     string    `json:"phone"`
	PhotoURL  *string   `json:"photo_url"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Upload is an in-memory photo file received via multipart form data.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Field names shared between validation schemas and error details.
const (
	FieldName      = "name"
	FieldBreed     = "breed"
	FieldOwnerName = "owner_name"
	FieldPhone     = "phone"
	FieldPhotoURL  = "photo_url"
)

// maxTextLen bounds name, breed, and owner_name.
const maxTextLen = 100
