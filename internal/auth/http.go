// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/petfolio/internal/platform/request"
	"github.com/taibuivan/petfolio/internal/platform/respond"
)

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account (public).
//   - POST /login    : Authenticates and returns a JWT (public).
//   - GET  /profile  : Returns the caller's account (behind the gate).
//   - PUT  /profile  : Partially updates the caller's account (behind the gate).
//
// The gate is injected by the server so register/login stay exempt from it.
func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	router.Group(func(protected chi.Router) {
		protected.Use(gate)
		protected.Get("/profile", handler.profile)
		protected.Put("/profile", handler.updateProfile)
	})

	return router
}

// credentialsRequest represents the JSON payload for register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse pairs the account with its freshly issued access token.
type sessionResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// register handles POST /api/auth/register requests.
//
// # Returns
//   - HTTP 201 Created with the User profile and a token.
//   - HTTP 400 Bad Request if validation fails or the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Schema validation, duplicate check, and bcrypt hashing all live in the
	// service. Errors map to the envelope via respond.Error.
	user, token, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "User registered successfully", sessionResponse{User: user, Token: token})
}

// login handles POST /api/auth/login requests.
//
// # Returns
//   - HTTP 200 OK with the User profile and a token.
//   - HTTP 401 Unauthorized for bad credentials (reason never leaked).
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, token, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Login successful", sessionResponse{User: user, Token: token})
}

// profile handles GET /api/auth/profile requests.
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Profile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Profile retrieved successfully", user)
}

// updateProfileRequest represents the partial-update payload.
// A nil (absent) field means "no change".
type updateProfileRequest struct {
	Email *string `json:"email"`
}

// updateProfile handles PUT /api/auth/profile requests.
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Email: input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Profile updated successfully", user)
}
