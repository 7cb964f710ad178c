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

func registerProduct(t *testing.T, testCtx *testutils.TestContext, name, measure string) {
	t.Helper()

	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/register-product",
		models.RegisterProductRequest{Name: name, Measure: measure},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRegisterProductEndpoint(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	registerProduct(t, testCtx, "tomato", models.MeasureKilogram)

	// Test case 1: Duplicate product name
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/register-product",
		models.RegisterProductRequest{Name: "tomato", Measure: models.MeasureKilogram},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Test case 2: Unknown measure
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/register-product",
		models.RegisterProductRequest{Name: "pumpkin", Measure: "BUSHEL"},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddCollectedProductEndpoint(t *testing.T) {
	testCtx := testutils.SetupTestContext(t)

	registerProduct(t, testCtx, "tomato", models.MeasureKilogram)

	setRate := models.HarvestRateRequest{ProductName: "tomato", Amount: 100}
	w := testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/admin/set-harvest-rate",
		setRate,
		testutils.AuthHeaders(testCtx.AdminJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	// Test case 1: Collection depletes the quota
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/add-collected-product",
		models.CollectProductRequest{Name: "tomato", Measure: models.MeasureKilogram, Amount: 30},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string                 `json:"status"`
		Data   models.HarvestRateView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "tomato", resp.Data.ProductName)
	assert.Equal(t, int64(70), resp.Data.Remaining)

	// Test case 2: Measure mismatch leaves state untouched
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/add-collected-product",
		models.CollectProductRequest{Name: "tomato", Measure: models.MeasureLiter, Amount: 10},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Test case 3: Unknown product
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/add-collected-product",
		models.CollectProductRequest{Name: "unknown", Measure: models.MeasureKilogram, Amount: 10},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Test case 4: Non-positive amount is rejected at the boundary
	w = testutils.PerformRequest(
		testCtx.Router,
		http.MethodPost,
		"/api/product/add-collected-product",
		models.CollectProductRequest{Name: "tomato", Measure: models.MeasureKilogram, Amount: 0},
		testutils.AuthHeaders(testCtx.WorkerJWT),
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
