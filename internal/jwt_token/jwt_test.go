package jwttoken

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "soukscan/pkg/domain-errors"
)

var jwtService = NewHMACService("test-signing-key", "soukscan-auth")

func Test_GenerateAndValidate(t *testing.T) {
	token, err := jwtService.GenerateToken("7", "moderator", []string{"MODERATOR"}, time.Hour)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "moderator", claims.Username)
	assert.Equal(t, []string{"MODERATOR"}, claims.Roles)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateToken("7", "admin", []string{"ADMIN"}, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))
}

func Test_ValidateToken_WrongIssuer(t *testing.T) {
	other := NewHMACService("test-signing-key", "someone-else")
	token, err := other.GenerateToken("7", "admin", nil, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_RSAService(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	svc, err := NewRSAService(pubPEM, "")
	require.NoError(t, err)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
		Roles: []string{"ADMIN"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "12",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(key)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "12", claims.Subject)

	t.Run("HMAC tokens are refused by an RSA service", func(t *testing.T) {
		hs, err := jwtService.GenerateToken("12", "admin", nil, time.Hour)
		require.NoError(t, err)
		_, err = svc.ValidateToken(hs)
		assert.Error(t, err)
	})

	t.Run("adapter maps claims for the auth middleware", func(t *testing.T) {
		mw, err := NewJWTServiceAdapter(svc).ValidateToken(signed)
		require.NoError(t, err)
		assert.Equal(t, "12", mw.Subject)
		assert.Equal(t, []string{"ADMIN"}, mw.Roles)
	})
}
