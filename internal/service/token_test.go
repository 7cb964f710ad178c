package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmflow/farmflow-server/internal/models"
	"github.com/farmflow/farmflow-server/internal/service"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := service.NewTokenService("test-secret-key", time.Hour)
	user := &models.User{Email: "worker@example.com"}

	token, err := tokens.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "worker@example.com", subject)
}

func TestTokenExpired(t *testing.T) {
	// A negative lifetime issues a token that is already past its expiry.
	tokens := service.NewTokenService("test-secret-key", -time.Minute)
	user := &models.User{Email: "worker@example.com"}

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	_, err = tokens.Validate(token)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestTokenTampered(t *testing.T) {
	tokens := service.NewTokenService("test-secret-key", time.Hour)
	user := &models.User{Email: "worker@example.com"}

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	t.Run("PayloadModified", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)

		// Swap the payload for a different (validly encoded) one; the old
		// signature no longer matches.
		other, err := tokens.Issue(&models.User{Email: "intruder@example.com"})
		require.NoError(t, err)
		otherParts := strings.Split(other, ".")

		forged := parts[0] + "." + otherParts[1] + "." + parts[2]
		_, err = tokens.Validate(forged)
		assert.ErrorIs(t, err, service.ErrTokenInvalid)
	})

	t.Run("SignatureModified", func(t *testing.T) {
		tampered := token[:len(token)-2] + "xx"
		_, err := tokens.Validate(tampered)
		assert.ErrorIs(t, err, service.ErrTokenInvalid)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		otherService := service.NewTokenService("a-different-secret", time.Hour)
		_, err := otherService.Validate(token)
		assert.ErrorIs(t, err, service.ErrTokenInvalid)
	})
}

func TestTokenMalformed(t *testing.T) {
	tokens := service.NewTokenService("test-secret-key", time.Hour)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := tokens.Validate(raw)
		assert.ErrorIs(t, err, service.ErrTokenInvalid, "input %q", raw)
	}
}
