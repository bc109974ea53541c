package jwttoken

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "soukscan/pkg/domain-errors"
)

// Claims are the access token claims issued by the marketplace auth service.
// The caller id travels in the registered "sub" claim.
type Claims struct {
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTService validates bearer tokens. Tokens are verified with an RSA public
// key when one is configured, otherwise with a shared HMAC secret.
type JWTService struct {
	publicKey  *rsa.PublicKey
	hmacSecret []byte
	issuer     string
}

// NewHMACService validates HS256 tokens signed with secret.
func NewHMACService(secret, issuer string) *JWTService {
	return &JWTService{hmacSecret: []byte(secret), issuer: issuer}
}

// NewRSAService validates RS256 tokens against a PEM encoded public key.
func NewRSAService(publicKeyPEM []byte, issuer string) (*JWTService, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse jwt public key: %w", err)
	}
	return &JWTService{publicKey: key, issuer: issuer}, nil
}

// NewFromConfig prefers the public key file and falls back to the secret.
func NewFromConfig(publicKeyPath, hmacSecret, issuer string) (*JWTService, error) {
	if publicKeyPath != "" {
		pem, err := os.ReadFile(publicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read jwt public key: %w", err)
		}
		return NewRSAService(pem, issuer)
	}
	if hmacSecret == "" {
		return nil, errors.New("jwt: either a public key or an HMAC secret is required")
	}
	return NewHMACService(hmacSecret, issuer), nil
}

func (s *JWTService) keyFunc(token *jwt.Token) (any, error) {
	if s.publicKey != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.publicKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenUnverifiable
	}
	return s.hmacSecret, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, s.keyFunc, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Subject == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}
	return claims, nil
}

// GenerateToken signs an HS256 token. Only usable on HMAC services; meant for
// local tooling and tests.
func (s *JWTService) GenerateToken(subject, username string, roles []string, expiresIn time.Duration) (string, error) {
	if s.hmacSecret == nil {
		return "", errors.New("jwt: token generation requires an HMAC secret")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.hmacSecret)
}
