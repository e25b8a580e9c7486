// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pet_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/petfolio/internal/pet"
	"github.com/taibuivan/petfolio/internal/platform/apperr"
	"github.com/taibuivan/petfolio/pkg/pointer"
)

// fakePetRepo is an in-memory Repository enforcing the same ownership scoping
// as the PostgreSQL implementation: single-record lookups filter by both id
// and userID, and an invisible row is a plain (nil, nil).
type fakePetRepo struct {
	pets []*pet.Pet // newest first
}

func (repo *fakePetRepo) ListByUser(_ context.Context, userID string) ([]*pet.Pet, error) {
	owned := make([]*pet.Pet, 0)
	for _, record := range repo.pets {
		if record.UserID == userID {
			copied := *record
			owned = append(owned, &copied)
		}
	}
	return owned, nil
}

func (repo *fakePetRepo) FindByID(_ context.Context, id, userID string) (*pet.Pet, error) {
	for _, record := range repo.pets {
		if record.ID == id && record.UserID == userID {
			copied := *record
			return &copied, nil
		}
	}
	return nil, nil
}

func (repo *fakePetRepo) Create(_ context.Context, record *pet.Pet) error {
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	copied := *record
	repo.pets = append([]*pet.Pet{&copied}, repo.pets...)
	return nil
}

func (repo *fakePetRepo) Update(_ context.Context, record *pet.Pet) error {
	record.UpdatedAt = time.Now()
	for i, existing := range repo.pets {
		if existing.ID == record.ID && existing.UserID == record.UserID {
			copied := *record
			repo.pets[i] = &copied
			return nil
		}
	}
	return apperr.NotFound("Pet")
}

func (repo *fakePetRepo) Delete(_ context.Context, id, userID string) error {
	for i, existing := range repo.pets {
		if existing.ID == id && existing.UserID == userID {
			repo.pets = append(repo.pets[:i], repo.pets[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Pet")
}

// fakePhotoStorage records uploads and returns deterministic URLs.
type fakePhotoStorage struct {
	keys []string
}

func (storage *fakePhotoStorage) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	storage.keys = append(storage.keys, key)
	return "https://cdn.petfolio.app/" + key, nil
}

func newPetService() (*pet.Service, *fakePetRepo, *fakePhotoStorage) {
	repo := &fakePetRepo{}
	storage := &fakePhotoStorage{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return pet.NewService(repo, storage, logger), repo, storage
}

func validCreateInput() pet.CreateInput {
	return pet.CreateInput{
		Name:      "Rex",
		Breed:     "Border Collie",
		OwnerName: "Dana",
		Phone:     "+14155552671",
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	service, repo, _ := newPetService()

	created, err := service.Create(ctx, "user-1", validCreateInput())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Rex", created.Name)
	assert.Equal(t, "user-1", created.UserID)
	assert.Nil(t, created.PhotoURL)
	assert.Len(t, repo.pets, 1)
}

/*
TestService_Create_FailComplete: a payload violating several constraints at
once reports every violation and persists nothing.
*/
func TestService_Create_FailComplete(t *testing.T) {
	ctx := context.Background()
	service, repo, storage := newPetService()

	_, err := service.Create(ctx, "user-1", pet.CreateInput{
		Name:      "",
		Breed:     strings.Repeat("x", 101),
		OwnerName: "Dana",
		Phone:     "abc",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 400, ae.HTTPStatus)
	assert.Len(t, ae.Details, 3) // name required, breed too long, phone invalid

	assert.Empty(t, repo.pets)
	assert.Empty(t, storage.keys)
}

func TestService_Create_PhoneValidation(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newPetService()

	input := validCreateInput()
	input.Phone = "abc"

	_, err := service.Create(ctx, "user-1", input)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "phone", ae.Details[0].Field)
	assert.Equal(t, "Please provide a valid phone number", ae.Details[0].Message)
}

func TestService_Create_PhotoURL(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newPetService()

	t.Run("trimmed", func(t *testing.T) {
		input := validCreateInput()
		input.PhotoURL = pointer.To("  https://example.com/rex.jpg  ")

		created, err := service.Create(ctx, "user-1", input)
		require.NoError(t, err)
		require.NotNil(t, created.PhotoURL)
		assert.Equal(t, "https://example.com/rex.jpg", *created.PhotoURL)
	})

	t.Run("blank_is_null", func(t *testing.T) {
		input := validCreateInput()
		input.PhotoURL = pointer.To("   ")

		created, err := service.Create(ctx, "user-1", input)
		require.NoError(t, err)
		assert.Nil(t, created.PhotoURL)
	})
}

func TestService_Create_PhotoUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("stored_and_linked", func(t *testing.T) {
		service, _, storage := newPetService()

		input := validCreateInput()
		input.Photo = &pet.Upload{
			Filename:    "rex.png",
			ContentType: "image/png",
			Size:        4,
			Data:        []byte("data"),
		}

		created, err := service.Create(ctx, "user-1", input)
		require.NoError(t, err)

		require.Len(t, storage.keys, 1)
		assert.True(t, strings.HasSuffix(storage.keys[0], ".png"))
		require.NotNil(t, created.PhotoURL)
		assert.Equal(t, "https://cdn.petfolio.app/"+storage.keys[0], *created.PhotoURL)
	})

	t.Run("file_wins_over_url", func(t *testing.T) {
		service, _, storage := newPetService()

		input := validCreateInput()
		input.Photo = &pet.Upload{ContentType: "image/jpeg", Size: 4, Data: []byte("data")}
		input.PhotoURL = pointer.To("https://example.com/ignored.jpg")

		created, err := service.Create(ctx, "user-1", input)
		require.NoError(t, err)
		require.NotNil(t, created.PhotoURL)
		assert.Equal(t, "https://cdn.petfolio.app/"+storage.keys[0], *created.PhotoURL)
	})

	t.Run("invalid_type", func(t *testing.T) {
		service, repo, storage := newPetService()

		input := validCreateInput()
		input.Photo = &pet.Upload{ContentType: "application/pdf", Size: 4, Data: []byte("data")}

		_, err := service.Create(ctx, "user-1", input)
		require.Error(t, err)
		assert.Equal(t, "Invalid file type. Only images are allowed.", apperr.As(err).Message)

		// Rejected before any storage call, nothing persisted
		assert.Empty(t, storage.keys)
		assert.Empty(t, repo.pets)
	})

	t.Run("too_large", func(t *testing.T) {
		service, repo, storage := newPetService()

		input := validCreateInput()
		input.Photo = &pet.Upload{ContentType: "image/png", Size: 5*1024*1024 + 1}

		_, err := service.Create(ctx, "user-1", input)
		require.Error(t, err)
		assert.Equal(t, "File too large. Maximum size is 5MB", apperr.As(err).Message)

		assert.Empty(t, storage.keys)
		assert.Empty(t, repo.pets)
	})
}

/*
TestService_Get_OwnershipScoping: another user's pet yields the exact same
404 as a missing one, never a 403.
*/
func TestService_Get_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newPetService()

	created, err := service.Create(ctx, "user-a", validCreateInput())
	require.NoError(t, err)

	// Owner sees it
	found, err := service.Get(ctx, "user-a", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	// A stranger gets the same response as for a nonexistent ID
	_, strangerErr := service.Get(ctx, "user-b", created.ID)
	_, missingErr := service.Get(ctx, "user-a", "no-such-id")

	for _, err := range []error{strangerErr, missingErr} {
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
		assert.Equal(t, "Pet not found", ae.Message)
	}
}

func TestService_List_IsScoped(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newPetService()

	_, err := service.Create(ctx, "user-a", validCreateInput())
	require.NoError(t, err)

	other := validCreateInput()
	other.Name = "Mia"
	_, err = service.Create(ctx, "user-b", other)
	require.NoError(t, err)

	pets, err := service.List(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "Rex", pets[0].Name)
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newPetService()

	seed := []struct{ name, breed, owner string }{
		{"Rex", "Border Collie", "Dana"},
		{"Mia", "Siamese", "Jordan"},
		{"Rocky", "Collie Mix", "Sam"},
	}
	for _, row := range seed {
		input := validCreateInput()
		input.Name, input.Breed, input.OwnerName = row.name, row.breed, row.owner
		_, err := service.Create(ctx, "user-1", input)
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"collie", 2},  // matches breed, case-insensitive
		{"REX", 1},     // matches name
		{"jordan", 1},  // matches owner name
		{"o", 3},       // substring across fields
		{"axolotl", 0}, // no match: empty list, not an error
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			matched, err := service.Search(ctx, "user-1", tt.query)
			require.NoError(t, err)
			assert.Len(t, matched, tt.want)
		})
	}

	// Another user's records are invisible to search
	matched, err := service.Search(ctx, "user-2", "rex")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	service, _, storage := newPetService()

	input := validCreateInput()
	input.PhotoURL = pointer.To("https://example.com/rex.jpg")
	created, err := service.Create(ctx, "user-1", input)
	require.NoError(t, err)

	t.Run("partial_merge", func(t *testing.T) {
		updated, err := service.Update(ctx, "user-1", created.ID, pet.UpdateInput{
			Name: pointer.To("Rexford"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Rexford", updated.Name)
		// Untouched fields survive
		assert.Equal(t, "Border Collie", updated.Breed)
		require.NotNil(t, updated.PhotoURL)
		assert.Equal(t, "https://example.com/rex.jpg", *updated.PhotoURL)
	})

	t.Run("absent_photo_url_untouched", func(t *testing.T) {
		updated, err := service.Update(ctx, "user-1", created.ID, pet.UpdateInput{
			Breed: pointer.To("Collie"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.PhotoURL)
		assert.Equal(t, "https://example.com/rex.jpg", *updated.PhotoURL)
	})

	t.Run("file_overrides", func(t *testing.T) {
		updated, err := service.Update(ctx, "user-1", created.ID, pet.UpdateInput{
			Photo:    &pet.Upload{ContentType: "image/webp", Size: 4, Data: []byte("data")},
			PhotoURL: pointer.To("https://example.com/ignored.jpg"),
		})
		require.NoError(t, err)

		require.Len(t, storage.keys, 1)
		assert.True(t, strings.HasSuffix(storage.keys[0], ".webp"))
		require.NotNil(t, updated.PhotoURL)
		assert.Equal(t, "https://cdn.petfolio.app/"+storage.keys[0], *updated.PhotoURL)
	})

	t.Run("empty_url_clears", func(t *testing.T) {
		updated, err := service.Update(ctx, "user-1", created.ID, pet.UpdateInput{
			PhotoURL: pointer.To(""),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.PhotoURL)
	})

	t.Run("invalid_present_field", func(t *testing.T) {
		_, err := service.Update(ctx, "user-1", created.ID, pet.UpdateInput{
			Phone: pointer.To("abc"),
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("foreign_record", func(t *testing.T) {
		_, err := service.Update(ctx, "user-b", created.ID, pet.UpdateInput{
			Name: pointer.To("Hijacked"),
		})
		require.Error(t, err)
		assert.Equal(t, "Pet not found", apperr.As(err).Message)

		// The record is intact
		unchanged, err := service.Get(ctx, "user-1", created.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "Hijacked", unchanged.Name)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	service, repo, _ := newPetService()

	created, err := service.Create(ctx, "user-1", validCreateInput())
	require.NoError(t, err)

	t.Run("foreign_record", func(t *testing.T) {
		err := service.Delete(ctx, "user-b", created.ID)
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
		assert.Len(t, repo.pets, 1)
	})

	t.Run("owner", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, "user-1", created.ID))
		assert.Empty(t, repo.pets)
	})

	t.Run("already_gone", func(t *testing.T) {
		err := service.Delete(ctx, "user-1", created.ID)
		require.Error(t, err)
		assert.Equal(t, "Pet not found", apperr.As(err).Message)
	})
}
