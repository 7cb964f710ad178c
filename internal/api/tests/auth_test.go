package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmflow/farmflow-server/internal/api/testutils"
	"github.com/farmflow/farmflow-server/internal/models"
)

func TestRegisterUser(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful registration
	registerReq := models.RegisterUserRequest{
		Name:     "Ivan",
		Surname:  "Petrov",
		Email:    "newuser@example.com",
		Password: "Password123",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/register-user",
		registerReq,
		nil,
	)

	assert.Equal(t, http.StatusCreated, w.Code)

	// Test case 2: Duplicate email is reported as an authentication failure
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/register-user",
		registerReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: Invalid request (missing required fields)
	invalidReq := models.RegisterUserRequest{
		Email: "invalid@example.com",
		// Missing name, surname and password
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/register-user",
		invalidReq,
		nil,
	)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignInEndpoint(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Test case 1: Successful sign-in returns a usable token
	signInReq := models.SignInRequest{
		Email:    testCtx.WorkerEmail,
		Password: "testpassword",
	}

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/sign-in",
		signInReq,
		nil,
	)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, testCtx.WorkerEmail, resp.Email)

	subject, err := testCtx.Tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, testCtx.WorkerEmail, subject)

	// Test case 2: Invalid credentials
	invalidSignInReq := models.SignInRequest{
		Email:    testCtx.WorkerEmail,
		Password: "wrongpassword",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/sign-in",
		invalidSignInReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Test case 3: User not found
	nonExistentUserReq := models.SignInRequest{
		Email:    "nonexistent@example.com",
		Password: "testpassword",
	}

	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/sign-in",
		nonExistentUserReq,
		nil,
	)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
