package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmflow/farmflow-server/internal/api/testutils"
	"github.com/farmflow/farmflow-server/internal/models"
)

func TestGateAnonymousAccess(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// Public endpoints accept requests without a token
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/auth/sign-in",
		models.SignInRequest{Email: testCtx.WorkerEmail, Password: "testpassword"},
		nil,
	)
	assert.Equal(t, http.StatusOK, w.Code)

	// Protected endpoints reject anonymous requests
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/register-product",
		models.RegisterProductRequest{Name: "tomato", Measure: models.MeasureKilogram},
		nil,
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGateRejectsSuppliedInvalidToken(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	// A bad credential on a public route is still rejected outright: supplying
	// a token opts the caller out of anonymous access.
	cases := map[string]map[string]string{
		"Garbage":         testutils.AuthHeaders("not-a-token"),
		"WrongFormat":     {"Authorization": "Token abc.def.ghi"},
		"TamperedPayload": testutils.AuthHeaders(testCtx.WorkerJWT + "x"),
	}

	for name, headers := range cases {
		t.Run(name, func(t *testing.T) {
			w := testutils.PerformRequest(
				testCtx.Router,
				http.MethodPost,
				"/api/auth/sign-in",
				models.SignInRequest{Email: testCtx.WorkerEmail, Password: "testpassword"},
				headers,
			)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestGateBlockedUser(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	require.NoError(t, testCtx.Service.BlockUser(context.Background(), testCtx.WorkerEmail))

	// A valid token of a blocked account is refused before any handler runs
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/register-product",
		models.RegisterProductRequest{Name: "tomato", Measure: models.MeasureKilogram},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGateAdminOnly(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	req := models.HarvestRateRequest{ProductName: "tomato", Amount: 100}

	// A regular user cannot reach admin endpoints
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/admin/set-harvest-rate",
		req,
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// An anonymous request is unauthorized, not forbidden
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/admin/set-harvest-rate",
		req,
		nil,
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGateUnknownSubject(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	ghost := &models.User{Email: "ghost@example.com", Role: models.RoleUser}
	token, err := testCtx.Tokens.Issue(ghost)
	require.NoError(t, err)

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/register-product",
		models.RegisterProductRequest{Name: "tomato", Measure: models.MeasureKilogram},
		testutils.AuthHeaders(token),
	)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
