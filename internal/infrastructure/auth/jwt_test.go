package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardia/backend/internal/infrastructure/config"
)

func testService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-test-secret-test-secret",
		Issuer: "guardia-backend",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	s := testService()

	token, err := s.GenerateSessionToken("user-1", "Dra. Serrano", true, time.Hour)
	require.NoError(t, err)

	claims, err := s.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Dra. Serrano", claims.Name)
	assert.True(t, claims.Approved)
}

func TestJWTService_UnapprovedClaim(t *testing.T) {
	s := testService()

	token, err := s.GenerateSessionToken("user-2", "", false, time.Hour)
	require.NoError(t, err)

	claims, err := s.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.False(t, claims.Approved)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	s := testService()

	token, err := s.GenerateSessionToken("user-3", "", true, -time.Minute)
	require.NoError(t, err)

	_, err = s.ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	other := NewJWTService(config.JWTConfig{
		Secret: "another-secret-another-secret-12",
		Issuer: "guardia-backend",
	})
	token, err := other.GenerateSessionToken("user-4", "", true, time.Hour)
	require.NoError(t, err)

	_, err = testService().ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	other := NewJWTService(config.JWTConfig{
		Secret: "test-secret-test-secret-test-secret",
		Issuer: "someone-else",
	})
	token, err := other.GenerateSessionToken("user-5", "", true, time.Hour)
	require.NoError(t, err)

	_, err = testService().ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	_, err := testService().ValidateSessionToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
