package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/farmflow/farmflow-server/internal/models"
)

// TokenService issues and validates self-contained session tokens. Tokens
// carry the subject email, issue time and expiry and are signed with an
// HMAC secret; no server-side session state exists, so a token cannot be
// revoked before it expires.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string, lifetime time.Duration) *TokenService {
	return &TokenService{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

// Lifetime returns the configured token validity duration.
func (t *TokenService) Lifetime() time.Duration {
	return t.lifetime
}

// Issue signs a token for the user with subject = email.
func (t *TokenService) Issue(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": user.Email,
		"exp": now.Add(t.lifetime).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate verifies the signature and expiry of a token and returns its
// subject email. Any tampering, a wrong signing method, a missing subject
// or a missing expiry all fail with ErrTokenInvalid; an elapsed expiry
// fails with ErrTokenExpired.
func (t *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrTokenInvalid
	}

	return subject, nil
}
