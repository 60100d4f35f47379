package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 3, "USER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	id, err := VerifyAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	require.Equal(t, uint64(3), id)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, 3, "USER", 15)
	require.NoError(t, err)

	_, err = VerifyAccessToken("other-secret", tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": 3,
		"exp": time.Now().UTC().Add(-time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyAccessToken(testSecret, signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"role": "USER",
		"exp":  time.Now().UTC().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyAccessToken(testSecret, signed)
	require.ErrorIs(t, err, ErrNoSubject)
}

func TestVerifyAcceptsStringSubject(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().UTC().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	id, err := VerifyAccessToken(testSecret, signed)
	require.NoError(t, err)
	require.Equal(t, uint64(42), id)
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	rt, err := NewRefreshToken(7)
	require.NoError(t, err)
	require.Len(t, rt.Raw, 96)
	require.True(t, rt.Exp.After(time.Now().UTC().Add(6*24*time.Hour)))
	require.Equal(t, HashRefreshRaw(rt.Raw), HashRefreshRaw(rt.Raw))
	require.Len(t, HashRefreshRaw(rt.Raw), 64)
}
