package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farmflow/farmflow-server/internal/models"
	"github.com/farmflow/farmflow-server/internal/service"
)

// Handler holds the API handlers
type Handler struct {
	svc service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetupRoutes registers all routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine, auth *AuthMiddleware) {
	router.Use(auth.Authenticate())

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register-user", h.RegisterUser)
		authGroup.POST("/sign-in", h.SignIn)
	}

	product := api.Group("/product", auth.RequireAuth())
	{
		product.POST("/register-product", h.RegisterProduct)
		product.POST("/add-collected-product", h.AddCollectedProduct)
	}

	admin := api.Group("/admin", auth.RequireAuth(), auth.RequireAdmin())
	{
		admin.POST("/rate", h.RateUser)
		admin.POST("/block/:email", h.BlockUser)
		admin.POST("/set-harvest-rate", h.SetHarvestRate)
		admin.GET("/get-statistics-by-user", h.StatisticsByUser)
		admin.GET("/get-statistics-by-farm", h.StatisticsByFarm)
	}
}

// RegisterUser handles POST /api/auth/register-user
func (h *Handler) RegisterUser(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := h.svc.RegisterUser(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Status:    "success",
		Operation: "register",
		Data:      "Successfully registered!",
	})
}

// SignIn handles POST /api/auth/sign-in
func (h *Handler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.svc.SignIn(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterProduct handles POST /api/product/register-product
func (h *Handler) RegisterProduct(c *gin.Context) {
	var req models.RegisterProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if !models.ValidMeasure(req.Measure) {
		writeValidationError(c, "Wrong measure!")
		return
	}

	if err := h.svc.RegisterProduct(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Status:    "success",
		Operation: "register",
		Data:      "Successfully registered!",
	})
}

// AddCollectedProduct handles POST /api/product/add-collected-product
func (h *Handler) AddCollectedProduct(c *gin.Context) {
	var req models.CollectProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if !models.ValidMeasure(req.Measure) {
		writeValidationError(c, "Wrong measure!")
		return
	}

	view, err := h.svc.AddCollectedProduct(c.Request.Context(), CurrentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Status:    "success",
		Operation: "add",
		Data:      view,
	})
}

// SetHarvestRate handles POST /api/admin/set-harvest-rate
func (h *Handler) SetHarvestRate(c *gin.Context) {
	var req models.HarvestRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := h.svc.SetHarvestRate(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Status:    "success",
		Operation: "set harvest rate",
		Data:      "Successfully set!",
	})
}

// RateUser handles POST /api/admin/rate
func (h *Handler) RateUser(c *gin.Context) {
	var req models.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := h.svc.RateUser(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Status:    "success",
		Operation: "rate",
		Data:      "Successfully rated!",
	})
}

// BlockUser handles POST /api/admin/block/:email
func (h *Handler) BlockUser(c *gin.Context) {
	email := c.Param("email")

	if err := h.svc.BlockUser(c.Request.Context(), email); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Status:    "success",
		Operation: "block",
		Data:      "Successfully blocked!",
	})
}

// StatisticsByUser handles GET /api/admin/get-statistics-by-user
func (h *Handler) StatisticsByUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		writeValidationError(c, "email query parameter is required")
		return
	}

	begin, end, ok := parseWindow(c)
	if !ok {
		return
	}

	stats, err := h.svc.StatisticsByUser(c.Request.Context(), email, begin, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Status:    "success",
		Operation: "get statistics",
		Data:      stats,
	})
}

// StatisticsByFarm handles GET /api/admin/get-statistics-by-farm
func (h *Handler) StatisticsByFarm(c *gin.Context) {
	begin, end, ok := parseWindow(c)
	if !ok {
		return
	}

	stats, err := h.svc.StatisticsByFarm(c.Request.Context(), begin, end)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Status:    "success",
		Operation: "get statistics",
		Data:      stats,
	})
}

// parseWindow reads the inclusive begin/end date range from query parameters.
func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	begin, err := time.Parse("2006-01-02", c.Query("begin"))
	if err != nil {
		writeValidationError(c, "begin must be a date in the form 2006-01-02")
		return time.Time{}, time.Time{}, false
	}

	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		writeValidationError(c, "end must be a date in the form 2006-01-02")
		return time.Time{}, time.Time{}, false
	}

	return begin, end, true
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "VALIDATION_FAILED",
		Message: err.Error(),
	})
}

func writeValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "VALIDATION_FAILED",
		Message: message,
	})
}

// writeError maps service errors to client-visible responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrDuplicateProduct):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "DUPLICATE",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrMeasureMismatch):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Status:  "error",
			Code:    "VALIDATION_MISMATCH",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "AUTHENTICATION_FAILED",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrBlocked):
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Status:  "error",
			Code:    "BLOCKED",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrTokenExpired), errors.Is(err, service.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "UNAUTHORIZED",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL",
			Message: "Internal server error",
		})
	}
}
