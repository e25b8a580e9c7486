// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/petfolio/internal/platform/apperr"
	"github.com/taibuivan/petfolio/internal/platform/sec"
	"github.com/taibuivan/petfolio/internal/platform/validate"
	"github.com/taibuivan/petfolio/pkg/pointer"
	"github.com/taibuivan/petfolio/pkg/uuidv7"
)

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string carrying the user's
	// identity claims. The TTL is fixed by the provider's configuration.
	GenerateAccessToken(userID, email string) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	users  UserRepository
	tokens TokenProvider
	logger *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(users UserRepository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Email    string
	Password string
}

// Register validates, hashes, and persists a brand new user account, then
// issues an access token for it.
//
// # Business Rules
//   - Emails must be unique. The check here is best-effort (check-then-create);
//     the schema's unique index is the hard guarantee under concurrency.
//   - Passwords are at least 6 characters and stored only as bcrypt hashes.
//
// # Returns
//   - The created [*User] and a signed access token.
//   - [apperr.Conflict] (HTTP 400) when the email is already registered.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, string, error) {
	// ── 1. Schema Validation ──────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password).MinLen(FieldPassword, input.Password, 6)
	if err := validator.Err(); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// ── 2. Uniqueness Check ───────────────────────────────────────────────

	existing, err := service.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperr.Conflict("User already exists with this email")
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Entity Construction & Persistence ──────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	// ── 5. Token Issuance ─────────────────────────────────────────────────

	token, err := service.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))
	return user, token, nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates user credentials and issues an access token.
//
// # Returns
//   - The [*User] and a signed access token.
//   - [apperr.Unauthorized] if credentials do not match. The message never
//     reveals whether the email or the password was wrong.
func (service *Service) Login(ctx context.Context, input LoginInput) (*User, string, error) {
	// ── 1. Schema Validation ──────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, "", err
	}

	// ── 2. Fetch User Profile ─────────────────────────────────────────────

	user, err := service.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, "", err
	}

	// Generic unauthorized error to prevent email enumeration attacks.
	if user == nil {
		return nil, "", apperr.Unauthorized("Invalid email or password")
	}

	// ── 3. Security Verification ──────────────────────────────────────────

	// bcrypt's comparison is constant-time, preventing timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, "", apperr.Unauthorized("Invalid email or password")
	}

	// ── 4. Token Issuance ─────────────────────────────────────────────────

	token, err := service.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return user, token, nil
}

// Profile returns the account owning the authenticated session.
//
// Returns [apperr.NotFound] if the account no longer exists (e.g. deleted
// while a token for it was still valid).
func (service *Service) Profile(ctx context.Context, userID string) (*User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

// UpdateProfileInput carries the optional profile fields. A nil field means
// "no change".
type UpdateProfileInput struct {
	Email *string
}

// UpdateProfile applies partial changes to the caller's account.
//
// Returns [apperr.Conflict] (HTTP 400, "Email already in use") when the new
// email belongs to a different account.
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := service.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(pointer.Val(input.Email)))

		validator := &validate.Validator{}
		validator.Required(FieldEmail, email).Email(FieldEmail, email)
		if err := validator.Err(); err != nil {
			return nil, err
		}

		owner, err := service.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != userID {
			return nil, apperr.Conflict("Email already in use")
		}

		user.Email = email
	}

	if err := service.users.Update(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("profile_updated", slog.String("user_id", userID))
	return user, nil
}

// DeleteAccount permanently removes the caller's account row.
func (service *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := service.users.Delete(ctx, userID); err != nil {
		return err
	}

	service.logger.Warn("account_deleted", slog.String("user_id", userID))
	return nil
}
