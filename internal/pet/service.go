// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pet

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/petfolio/internal/platform/apperr"
	"github.com/taibuivan/petfolio/internal/platform/constants"
	"github.com/taibuivan/petfolio/internal/platform/validate"
	"github.com/taibuivan/petfolio/pkg/uuidv7"
)

// Service implements the pet resource use cases.
//
// All operations take the authenticated user's ID explicitly; no method can
// touch a record outside that user's scope.
type Service struct {
	repo    Repository
	photos  PhotoStorage
	logger  *slog.Logger
}

// NewService constructs a pet [Service] with its repository and photo storage.
func NewService(repo Repository, photos PhotoStorage, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		photos: photos,
		logger: logger,
	}
}

// List returns every pet owned by userID, newest first.
func (service *Service) List(ctx context.Context, userID string) ([]*Pet, error) {
	return service.repo.ListByUser(ctx, userID)
}

// Get returns one pet scoped by owner.
//
// A record owned by another user yields the same [apperr.NotFound] as a
// missing record — never a 403.
func (service *Service) Get(ctx context.Context, userID, petID string) (*Pet, error) {
	pet, err := service.repo.FindByID(ctx, petID, userID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, apperr.NotFound("Pet")
	}
	return pet, nil
}

// Search filters the caller's pets by a case-insensitive substring match
// over name, breed, and owner name.
//
// The filter runs in memory over the full per-user result set. Per-user pet
// counts are small, so no query push-down or pagination is needed.
func (service *Service) Search(ctx context.Context, userID, query string) ([]*Pet, error) {
	pets, err := service.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matched := make([]*Pet, 0, len(pets))
	for _, pet := range pets {
		if strings.Contains(strings.ToLower(pet.Name), needle) ||
			strings.Contains(strings.ToLower(pet.Breed), needle) ||
			strings.Contains(strings.ToLower(pet.OwnerName), needle) {
			matched = append(matched, pet)
		}
	}

	return matched, nil
}

// CreateInput holds the fields for a new pet record. Photo and PhotoURL are
// alternatives: an uploaded file wins, then a caller-supplied URL, then null.
type CreateInput struct {
	Name      string
	Breed     string
	OwnerName string
	Phone     string
	Photo     *Upload
	PhotoURL  *string
}

// Create validates and persists a new pet owned by userID.
//
// An uploaded photo is validated (type, size) BEFORE any storage call; an
// oversized or non-image file aborts the operation with no partial upload.
func (service *Service) Create(ctx context.Context, userID string, input CreateInput) (*Pet, error) {
	// ── 1. Schema Validation ──────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, maxTextLen)
	validator.Required(FieldBreed, input.Breed).MaxLen(FieldBreed, input.Breed, maxTextLen)
	validator.Required(FieldOwnerName, input.OwnerName).MaxLen(FieldOwnerName, input.OwnerName, maxTextLen)
	validator.Required(FieldPhone, input.Phone)
	if strings.TrimSpace(input.Phone) != "" {
		validator.Phone(FieldPhone, input.Phone)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Photo Resolution ───────────────────────────────────────────────

	var photoURL *string
	switch {
	case input.Photo != nil:
		uploadedURL, err := service.uploadPhoto(ctx, input.Photo)
		if err != nil {
			return nil, err
		}
		photoURL = &uploadedURL
	case input.PhotoURL != nil && strings.TrimSpace(*input.PhotoURL) != "":
		trimmed := strings.TrimSpace(*input.PhotoURL)
		photoURL = &trimmed
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	pet := &Pet{
		ID:        uuidv7.New(),
		Name:      input.Name,
		Breed:     input.Breed,
		OwnerName: input.OwnerName,
		Phone:     input.Phone,
		PhotoURL:  photoURL,
		UserID:    userID,
	}

	if err := service.repo.Create(ctx, pet); err != nil {
		return nil, err
	}

	service.logger.Info("pet_created",
		slog.String("pet_id", pet.ID),
		slog.String("user_id", userID),
	)
	return pet, nil
}

// UpdateInput holds the partial-update fields. A nil field means "no change";
// a present field (even an empty string) overwrites the stored value.
//
// Photo semantics are three-way:
//   - Photo (file) present       → upload wins, overrides any URL field.
//   - PhotoURL key present       → overwrites; empty string clears to null.
//   - PhotoURL key absent        → stored value untouched.
type UpdateInput struct {
	Name      *string
	Breed     *string
	OwnerName *string
	Phone     *string
	Photo     *Upload
	PhotoURL  *string
}

// Update applies a partial update to a pet scoped by owner.
func (service *Service) Update(ctx context.Context, userID, petID string, input UpdateInput) (*Pet, error) {
	// ── 1. Ownership Check ────────────────────────────────────────────────

	pet, err := service.Get(ctx, userID, petID)
	if err != nil {
		return nil, err
	}

	// ── 2. Schema Validation (present fields only) ────────────────────────

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.MaxLen(FieldName, *input.Name, maxTextLen)
	}
	if input.Breed != nil {
		validator.MaxLen(FieldBreed, *input.Breed, maxTextLen)
	}
	if input.OwnerName != nil {
		validator.MaxLen(FieldOwnerName, *input.OwnerName, maxTextLen)
	}
	if input.Phone != nil && strings.TrimSpace(*input.Phone) != "" {
		validator.Phone(FieldPhone, *input.Phone)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 3. Field Merge ────────────────────────────────────────────────────

	if input.Name != nil {
		pet.Name = *input.Name
	}
	if input.Breed != nil {
		pet.Breed = *input.Breed
	}
	if input.OwnerName != nil {
		pet.OwnerName = *input.OwnerName
	}
	if input.Phone != nil {
		pet.Phone = *input.Phone
	}

	// ── 4. Photo Resolution (three-way) ───────────────────────────────────

	switch {
	case input.Photo != nil:
		uploadedURL, err := service.uploadPhoto(ctx, input.Photo)
		if err != nil {
			return nil, err
		}
		pet.PhotoURL = &uploadedURL
	case input.PhotoURL != nil:
		trimmed := strings.TrimSpace(*input.PhotoURL)
		if trimmed == "" {
			pet.PhotoURL = nil
		} else {
			pet.PhotoURL = &trimmed
		}
	}

	// ── 5. Persistence ────────────────────────────────────────────────────

	if err := service.repo.Update(ctx, pet); err != nil {
		return nil, err
	}

	service.logger.Info("pet_updated",
		slog.String("pet_id", pet.ID),
		slog.String("user_id", userID),
	)
	return pet, nil
}

// Delete removes a pet scoped by owner.
func (service *Service) Delete(ctx context.Context, userID, petID string) error {
	// Resolve first so a foreign or missing row yields "Pet not found".
	if _, err := service.Get(ctx, userID, petID); err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, petID, userID); err != nil {
		return err
	}

	service.logger.Warn("pet_deleted",
		slog.String("pet_id", petID),
		slog.String("user_id", userID),
	)
	return nil
}

// uploadPhoto validates an in-memory upload and hands it to the storage
// collaborator, returning the stored object's public URL.
func (service *Service) uploadPhoto(ctx context.Context, upload *Upload) (string, error) {
	extension, allowed := constants.AllowedPhotoMIMETypes[upload.ContentType]
	if !allowed {
		return "", apperr.Upload("Invalid file type. Only images are allowed.")
	}
	if upload.Size > constants.MaxUploadBytes {
		return "", apperr.Upload("File too large. Maximum size is 5MB")
	}

	key := uuidv7.New() + extension
	url, err := service.photos.Upload(ctx, key, upload.ContentType, upload.Data)
	if err != nil {
		return "", apperr.Internal(err)
	}

	return url, nil
}
