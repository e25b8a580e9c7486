// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pet

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/petfolio/internal/platform/apperr"
	"github.com/taibuivan/petfolio/internal/platform/constants"
	requestutil "github.com/taibuivan/petfolio/internal/platform/request"
	"github.com/taibuivan/petfolio/internal/platform/respond"
	"github.com/taibuivan/petfolio/internal/platform/validate"
)

// multipartMemoryLimit is the in-memory buffer for multipart parsing; larger
// parts spill to temp files, which still get size-checked before upload.
const multipartMemoryLimit = 8 << 20

// Handler implements the pet resource HTTP endpoints.
//
// All routes returned by [Handler.Routes] are mounted behind the Auth Gate,
// so every request carries verified claims.
type Handler struct {
	petService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{petService: service}
}

// Routes returns a [chi.Router] with the pet CRUD and search endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/search", handler.search)
	router.Get("/{id}", handler.get)
	router.Post("/", handler.create)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

// list handles GET /api/pets.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pets, err := handler.petService.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Pets retrieved successfully", pets)
}

// search handles GET /api/pets/search?q=.
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := request.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		respond.Error(writer, request, apperr.ValidationError("Search query is required"))
		return
	}

	pets, err := handler.petService.Search(request.Context(), userID, query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Search completed successfully", pets)
}

// get handles GET /api/pets/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pet, err := handler.petService.Get(request.Context(), userID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Pet retrieved successfully", pet)
}

// createPetRequest represents the JSON payload for pet creation.
type createPetRequest struct {
	Name      string  `json:"name"`
	Breed     string  `json:"breed"`
	OwnerName string  `json:"owner_name"`
	Phone     string  `json:"phone"`
	PhotoURL  *string `json:"photo_url"`
}

// create handles POST /api/pets (JSON or multipart form with a photo file).
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput

	if isMultipart(request) {
		form, upload, err := parseMultipart(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		input = CreateInput{
			Name:      form.value(FieldName),
			Breed:     form.value(FieldBreed),
			OwnerName: form.value(FieldOwnerName),
			Phone:     form.value(FieldPhone),
			Photo:     upload,
			PhotoURL:  form.optional(FieldPhotoURL),
		}
	} else {
		var body createPetRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input = CreateInput{
			Name:      body.Name,
			Breed:     body.Breed,
			OwnerName: body.OwnerName,
			Phone:     body.Phone,
			PhotoURL:  body.PhotoURL,
		}
	}

	pet, err := handler.petService.Create(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Pet created successfully", pet)
}

// updatePetRequest represents the partial-update JSON payload.
// Nil fields were absent from the request and mean "no change".
type updatePetRequest struct {
	Name      *string `json:"name"`
	Breed     *string `json:"breed"`
	OwnerName *string `json:"owner_name"`
	Phone     *string `json:"phone"`
	PhotoURL  *string `json:"photo_url"`
}

// update handles PUT /api/pets/{id} (JSON or multipart form with a photo file).
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput

	if isMultipart(request) {
		form, upload, err := parseMultipart(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		input = UpdateInput{
			Name:      form.optional(FieldName),
			Breed:     form.optional(FieldBreed),
			OwnerName: form.optional(FieldOwnerName),
			Phone:     form.optional(FieldPhone),
			Photo:     upload,
			PhotoURL:  form.optional(FieldPhotoURL),
		}
	} else {
		var body updatePetRequest
		if err := requestutil.DecodeJSON(request, &body); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input = UpdateInput{
			Name:      body.Name,
			Breed:     body.Breed,
			OwnerName: body.OwnerName,
			Phone:     body.Phone,
			PhotoURL:  body.PhotoURL,
		}
	}

	pet, err := handler.petService.Update(request.Context(), userID, requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Pet updated successfully", pet)
}

// delete handles DELETE /api/pets/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.petService.Delete(request.Context(), userID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Pet deleted successfully", nil)
}

// # Multipart Plumbing

// isMultipart reports whether the request body is a multipart form.
func isMultipart(request *http.Request) bool {
	return strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data")
}

// formValues wraps parsed multipart values preserving key presence, which the
// update semantics depend on (present-empty vs absent).
type formValues struct {
	values map[string][]string
}

// value returns the first value for key, or "".
func (form formValues) value(key string) string {
	if entries, ok := form.values[key]; ok && len(entries) > 0 {
		return entries[0]
	}
	return ""
}

// optional returns a pointer to the first value when the key was present in
// the form, or nil when it was absent.
func (form formValues) optional(key string) *string {
	if entries, ok := form.values[key]; ok && len(entries) > 0 {
		return &entries[0]
	}
	return nil
}

// parseMultipart extracts form fields and the optional "photo" file part.
//
// Only the part's declared size and content type are checked here via the
// service; the handler just materializes the bytes.
func parseMultipart(request *http.Request) (formValues, *Upload, error) {
	if err := request.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return formValues{}, nil, validate.ErrInvalidJSON
	}

	form := formValues{values: request.MultipartForm.Value}

	file, header, err := request.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return form, nil, nil
		}
		return formValues{}, nil, validate.ErrInvalidJSON
	}
	defer file.Close()

	upload, err := readUpload(file, header)
	if err != nil {
		return formValues{}, nil, err
	}

	return form, upload, nil
}

// readUpload materializes a multipart file part into an [Upload].
//
// Oversized parts are rejected from the header's size before any read, so a
// too-large file never occupies memory or reaches storage.
func readUpload(file multipart.File, header *multipart.FileHeader) (*Upload, error) {
	if header.Size > constants.MaxUploadBytes {
		return nil, apperr.Upload("File too large. Maximum size is 5MB")
	}

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadBytes+1))
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
