// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/petfolio/internal/platform/apperr"
	"github.com/taibuivan/petfolio/internal/platform/constants"
	"github.com/taibuivan/petfolio/internal/platform/ctxutil"
	"github.com/taibuivan/petfolio/internal/platform/respond"
	"github.com/taibuivan/petfolio/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the [sec.TokenService]
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate is the Auth Gate protecting every pet route and the profile routes.
//
// # Flow
//  1. Extract the bearer token from the Authorization header.
//     Missing or malformed header → HTTP 401, handler never runs.
//  2. Verify the token via [TokenVerifier].
//     Any verification failure → HTTP 403, handler never runs.
//  3. Attach [*sec.AuthClaims] to the request context and continue.
//
// Register/login/health routes are mounted outside this gate.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────────
			tokenStr := bearerToken(request)
			if tokenStr == "" {
				respond.Error(writer, request, apperr.Unauthorized("Access token required"))
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Forbidden("Invalid or expired token"))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}

// bearerToken pulls the token out of an 'Authorization: Bearer <token>' header.
// Returns "" for a missing or malformed header.
func bearerToken(request *http.Request) string {
	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
