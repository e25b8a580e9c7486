// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pet_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/petfolio/internal/pet"
	"github.com/taibuivan/petfolio/internal/platform/middleware"
	"github.com/taibuivan/petfolio/internal/platform/sec"
)

// envelope mirrors the uniform response body for decoding in tests.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details []string        `json:"details"`
}

type petRig struct {
	router  chi.Router
	repo    *fakePetRepo
	storage *fakePhotoStorage
	tokens  *sec.TokenService
}

func newPetRig() *petRig {
	repo := &fakePetRepo{}
	storage := &fakePhotoStorage{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := pet.NewService(repo, storage, logger)
	tokens := sec.NewTokenService("test-secret", "petfolio.test", time.Hour)

	router := chi.NewRouter()
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticate(tokens))
		protected.Mount("/api/pets", pet.NewHandler(service).Routes())
	})

	return &petRig{router: router, repo: repo, storage: storage, tokens: tokens}
}

func (rig *petRig) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := rig.tokens.GenerateAccessToken(userID, userID+"@petfolio.app")
	require.NoError(t, err)
	return token
}

func (rig *petRig) do(t *testing.T, request *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	recorder := httptest.NewRecorder()
	rig.router.ServeHTTP(recorder, request)

	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env), "body: %s", recorder.Body.String())
	return recorder, env
}

func jsonRequest(t *testing.T, method, path, token, body string) *http.Request {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Authorization", "Bearer "+token)
	return request
}

// multipartRequest builds a form request from fields plus an optional file
// part named "photo" with an explicit content type.
func multipartRequest(t *testing.T, method, path, token string, fields map[string]string, filename, fileType string, fileData []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
		header.Set("Content-Type", fileType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(method, path, &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Authorization", "Bearer "+token)
	return request
}

func TestPetHandler_Create_JSON(t *testing.T) {
	rig := newPetRig()
	token := rig.tokenFor(t, "user-1")

	recorder, env := rig.do(t, jsonRequest(t, http.MethodPost, "/api/pets", token,
		`{"name":"Rex","breed":"Border Collie","owner_name":"Dana","phone":"+14155552671"}`))

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Pet created successfully", env.Message)

	var created pet.Pet
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Rex", created.Name)
	assert.Equal(t, "user-1", created.UserID)
	assert.Nil(t, created.PhotoURL)
}

/*
TestPetHandler_Create_InvalidPhone: a bad phone number produces a 400 with a
flattened field detail, and no record is created.
*/
func TestPetHandler_Create_InvalidPhone(t *testing.T) {
	rig := newPetRig()
	token := rig.tokenFor(t, "user-1")

	recorder, env := rig.do(t, jsonRequest(t, http.MethodPost, "/api/pets", token,
		`{"name":"Rex","breed":"Border Collie","owner_name":"Dana","phone":"abc"}`))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Validation error", env.Message)
	require.Len(t, env.Details, 1)
	assert.Equal(t, "phone: Please provide a valid phone number", env.Details[0])

	assert.Empty(t, rig.repo.pets)
}

func TestPetHandler_Create_Multipart(t *testing.T) {
	fields := map[string]string{
		"name":       "Rex",
		"breed":      "Border Collie",
		"owner_name": "Dana",
		"phone":      "+14155552671",
	}

	t.Run("with_photo", func(t *testing.T) {
		rig := newPetRig()
		token := rig.tokenFor(t, "user-1")

		recorder, env := rig.do(t, multipartRequest(t, http.MethodPost, "/api/pets", token,
			fields, "rex.png", "image/png", []byte("pixels")))

		require.Equal(t, http.StatusCreated, recorder.Code)

		var created pet.Pet
		require.NoError(t, json.Unmarshal(env.Data, &created))
		require.NotNil(t, created.PhotoURL)
		require.Len(t, rig.storage.keys, 1)
		assert.Equal(t, "https://cdn.petfolio.app/"+rig.storage.keys[0], *created.PhotoURL)
	})

	t.Run("without_photo", func(t *testing.T) {
		rig := newPetRig()
		token := rig.tokenFor(t, "user-1")

		recorder, env := rig.do(t, multipartRequest(t, http.MethodPost, "/api/pets", token,
			fields, "", "", nil))

		require.Equal(t, http.StatusCreated, recorder.Code)

		var created pet.Pet
		require.NoError(t, json.Unmarshal(env.Data, &created))
		assert.Nil(t, created.PhotoURL)
		assert.Empty(t, rig.storage.keys)
	})

	t.Run("rejected_file_type", func(t *testing.T) {
		rig := newPetRig()
		token := rig.tokenFor(t, "user-1")

		recorder, env := rig.do(t, multipartRequest(t, http.MethodPost, "/api/pets", token,
			fields, "notes.pdf", "application/pdf", []byte("%PDF-")))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Invalid file type. Only images are allowed.", env.Message)
		assert.Empty(t, rig.repo.pets)
		assert.Empty(t, rig.storage.keys)
	})
}

func TestPetHandler_Search(t *testing.T) {
	rig := newPetRig()
	token := rig.tokenFor(t, "user-1")

	_, env := rig.do(t, jsonRequest(t, http.MethodPost, "/api/pets", token,
		`{"name":"Rex","breed":"Border Collie","owner_name":"Dana","phone":"+14155552671"}`))
	require.True(t, env.Success)

	t.Run("match", func(t *testing.T) {
		recorder, env := rig.do(t, jsonRequest(t, http.MethodGet, "/api/pets/search?q=collie", token, ""))
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Search completed successfully", env.Message)

		var pets []pet.Pet
		require.NoError(t, json.Unmarshal(env.Data, &pets))
		assert.Len(t, pets, 1)
	})

	t.Run("no_match_is_empty_list", func(t *testing.T) {
		recorder, env := rig.do(t, jsonRequest(t, http.MethodGet, "/api/pets/search?q=axolotl", token, ""))
		require.Equal(t, http.StatusOK, recorder.Code)

		var pets []pet.Pet
		require.NoError(t, json.Unmarshal(env.Data, &pets))
		assert.Empty(t, pets)
	})

	t.Run("missing_query", func(t *testing.T) {
		recorder, env := rig.do(t, jsonRequest(t, http.MethodGet, "/api/pets/search", token, ""))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "Search query is required", env.Message)
	})

	t.Run("blank_query", func(t *testing.T) {
		recorder, _ := rig.do(t, jsonRequest(t, http.MethodGet, "/api/pets/search?q=%20%20", token, ""))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestPetHandler_OwnershipIsolation: one user's records are invisible to
another user through every single-record endpoint, always as a 404.
*/
func TestPetHandler_OwnershipIsolation(t *testing.T) {
	rig := newPetRig()
	ownerToken := rig.tokenFor(t, "user-a")
	strangerToken := rig.tokenFor(t, "user-b")

	_, env := rig.do(t, jsonRequest(t, http.MethodPost, "/api/pets", ownerToken,
		`{"name":"Rex","breed":"Border Collie","owner_name":"Dana","phone":"+14155552671"}`))
	var created pet.Pet
	require.NoError(t, json.Unmarshal(env.Data, &created))

	endpoints := []struct {
		name   string
		method string
		body   string
	}{
		{"get", http.MethodGet, ""},
		{"update", http.MethodPut, `{"name":"Hijacked"}`},
		{"delete", http.MethodDelete, ""},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.name, func(t *testing.T) {
			recorder, env := rig.do(t, jsonRequest(t, endpoint.method, "/api/pets/"+created.ID, strangerToken, endpoint.body))
			assert.Equal(t, http.StatusNotFound, recorder.Code)
			assert.Equal(t, "Pet not found", env.Message)
		})
	}

	// The stranger's list is empty, the owner's is not
	_, env = rig.do(t, jsonRequest(t, http.MethodGet, "/api/pets", strangerToken, ""))
	var pets []pet.Pet
	require.NoError(t, json.Unmarshal(env.Data, &pets))
	assert.Empty(t, pets)

	_, env = rig.do(t, jsonRequest(t, http.MethodGet, "/api/pets", ownerToken, ""))
	require.NoError(t, json.Unmarshal(env.Data, &pets))
	assert.Len(t, pets, 1)
}

func TestPetHandler_Update_PhotoSemantics(t *testing.T) {
	rig := newPetRig()
	token := rig.tokenFor(t, "user-1")

	_, env := rig.do(t, jsonRequest(t, http.MethodPost, "/api/pets", token,
		`{"name":"Rex","breed":"Border Collie","owner_name":"Dana","phone":"+14155552671","photo_url":"https://example.com/rex.jpg"}`))
	var created pet.Pet
	require.NoError(t, json.Unmarshal(env.Data, &created))

	t.Run("absent_key_untouched", func(t *testing.T) {
		recorder, env := rig.do(t, jsonRequest(t, http.MethodPut, "/api/pets/"+created.ID, token,
			`{"name":"Rexford"}`))
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "Pet updated successfully", env.Message)

		var updated pet.Pet
		require.NoError(t, json.Unmarshal(env.Data, &updated))
		assert.Equal(t, "Rexford", updated.Name)
		require.NotNil(t, updated.PhotoURL)
		assert.Equal(t, "https://example.com/rex.jpg", *updated.PhotoURL)
	})

	t.Run("file_part_wins", func(t *testing.T) {
		recorder, env := rig.do(t, multipartRequest(t, http.MethodPut, "/api/pets/"+created.ID, token,
			map[string]string{"photo_url": "https://example.com/ignored.jpg"},
			"new.webp", "image/webp", []byte("pixels")))
		require.Equal(t, http.StatusOK, recorder.Code)

		var updated pet.Pet
		require.NoError(t, json.Unmarshal(env.Data, &updated))
		require.Len(t, rig.storage.keys, 1)
		require.NotNil(t, updated.PhotoURL)
		assert.Equal(t, "https://cdn.petfolio.app/"+rig.storage.keys[0], *updated.PhotoURL)
	})

	t.Run("empty_string_clears", func(t *testing.T) {
		recorder, env := rig.do(t, jsonRequest(t, http.MethodPut, "/api/pets/"+created.ID, token,
			`{"photo_url":""}`))
		require.Equal(t, http.StatusOK, recorder.Code)

		var updated pet.Pet
		require.NoError(t, json.Unmarshal(env.Data, &updated))
		assert.Nil(t, updated.PhotoURL)
	})
}

func TestPetHandler_Delete(t *testing.T) {
	rig := newPetRig()
	token := rig.tokenFor(t, "user-1")

	_, env := rig.do(t, jsonRequest(t, http.MethodPost, "/api/pets", token,
		`{"name":"Rex","breed":"Border Collie","owner_name":"Dana","phone":"+14155552671"}`))
	var created pet.Pet
	require.NoError(t, json.Unmarshal(env.Data, &created))

	recorder, env := rig.do(t, jsonRequest(t, http.MethodDelete, "/api/pets/"+created.ID, token, ""))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Pet deleted successfully", env.Message)
	// The envelope carries an explicit null payload
	assert.Equal(t, "null", string(env.Data))

	recorder, _ = rig.do(t, jsonRequest(t, http.MethodGet, "/api/pets/"+created.ID, token, ""))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestPetHandler_Anonymous(t *testing.T) {
	rig := newPetRig()

	request := httptest.NewRequest(http.MethodGet, "/api/pets", nil)
	recorder := httptest.NewRecorder()
	rig.router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
