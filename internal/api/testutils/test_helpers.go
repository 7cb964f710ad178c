package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmflow/farmflow-server/internal/api"
	"github.com/farmflow/farmflow-server/internal/models"
	"github.com/farmflow/farmflow-server/internal/repository"
	"github.com/farmflow/farmflow-server/internal/service"
)

// TestContext holds all dependencies for API tests
type TestContext struct {
	Router     *gin.Engine
	Repository *repository.MemoryRepository
	Service    *service.DefaultService
	Tokens     *service.TokenService

	WorkerEmail string
	WorkerJWT   string
	AdminEmail  string
	AdminJWT    string
}

// SetupTestContext wires a router over an in-memory repository together with a
// pre-created worker and admin, each holding a valid token.
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	repo := repository.NewMemoryRepository()
	tokens := service.NewTokenService("test-secret-key", time.Hour)
	svc := service.NewDefaultService(repo, tokens, discardMailer{}, "admin@example.com", "noreply@example.com")

	gin.SetMode(gin.TestMode)
	router := gin.New()

	auth := api.NewAuthMiddleware(tokens, repo)
	handler := api.NewHandler(svc)
	handler.SetupRoutes(router, auth)

	tc := &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		Tokens:     tokens,
	}

	worker := createTestUser(t, repo, "worker@example.com", models.RoleUser)
	admin := createTestUser(t, repo, "admin@example.com", models.RoleAdmin)

	tc.WorkerEmail = worker.Email
	tc.WorkerJWT = issueToken(t, tokens, worker)
	tc.AdminEmail = admin.Email
	tc.AdminJWT = issueToken(t, tokens, admin)

	return tc
}

type discardMailer struct{}

func (discardMailer) Send(to, from, subject, body string) error { return nil }

func createTestUser(t *testing.T, repo repository.Repository, email, role string) *models.User {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)
	require.NoError(t, err, "Failed to hash test password")

	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      "Test",
		Surname:   "User",
		Password:  string(hashedPassword),
		Role:      role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	err = repo.CreateUser(context.Background(), user)
	require.NoError(t, err, "Failed to create test user")

	return user
}

func issueToken(t *testing.T, tokens *service.TokenService, user *models.User) string {
	t.Helper()

	token, err := tokens.Issue(user)
	require.NoError(t, err, "Failed to issue test token")
	return token
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
