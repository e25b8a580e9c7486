// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth defines the user identity entity and its authentication use cases.
//
// # Architecture
//
// The entity in this package represents the "Truth" of the system.
// It has no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package auth

import (
	"time"
)

// User represents a registered account.
//
// # Rules
//   - Email is unique (application check backed by a unique index).
//   - PasswordHash is generated via bcrypt exclusively through the service.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Field names shared between validation schemas and error details.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)
