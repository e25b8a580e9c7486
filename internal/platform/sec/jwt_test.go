// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/petfolio/internal/platform/sec"
)

const testIssuer = "petfolio.test"

/*
TestTokenService_RoundTrip: a freshly issued token verifies and carries the
identity it was issued for.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := sec.NewTokenService("test-secret", testIssuer, time.Hour)

	token, err := service.GenerateAccessToken("user-1", "owner@petfolio.app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "owner@petfolio.app", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
}

/*
TestTokenService_Rejections: signature tampering, a foreign secret, malformed
input, and expiry all collapse into the same opaque error.
*/
func TestTokenService_Rejections(t *testing.T) {
	service := sec.NewTokenService("test-secret", testIssuer, time.Hour)

	valid, err := service.GenerateAccessToken("user-1", "owner@petfolio.app")
	require.NoError(t, err)

	t.Run("tampered_payload", func(t *testing.T) {
		parts := strings.Split(valid, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + ".eyJ1aWQiOiJ1c2VyLTk5In0." + parts[2]

		_, err := service.VerifyToken(tampered)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other := sec.NewTokenService("different-secret", testIssuer, time.Hour)

		_, err := other.VerifyToken(valid)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.token")
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := service.VerifyToken("")
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		shortLived := sec.NewTokenService("test-secret", testIssuer, -time.Minute)

		expired, err := shortLived.GenerateAccessToken("user-1", "owner@petfolio.app")
		require.NoError(t, err)

		_, err = shortLived.VerifyToken(expired)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	})
}
