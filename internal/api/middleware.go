package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farmflow/farmflow-server/internal/models"
	"github.com/farmflow/farmflow-server/internal/repository"
	"github.com/farmflow/farmflow-server/internal/service"
)

const identityKey = "identity"

// AuthMiddleware is the authentication gate: it turns a bearer token into an
// authenticated identity attached to the request context.
type AuthMiddleware struct {
	tokens *service.TokenService
	repo   repository.Repository
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens *service.TokenService, repo repository.Repository) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		repo:   repo,
	}
}

// Authenticate resolves the Authorization header. A request without a header
// passes through anonymously and is left to later authorization checks. A
// request that supplies a token which fails validation is rejected outright:
// presenting a bad credential is an authentication failure, never anonymous.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid token format")
			return
		}

		email, err := m.tokens.Validate(parts[1])
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}
			abortUnauthorized(c, "Invalid token")
			return
		}

		user, err := m.repo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Status:  "error",
				Code:    "INTERNAL",
				Message: "Failed to resolve identity",
			})
			c.Abort()
			return
		}

		if user == nil {
			abortUnauthorized(c, "Unknown token subject")
			return
		}

		if user.Blocked {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Status:  "error",
				Code:    "BLOCKED",
				Message: "Account is blocked",
			})
			c.Abort()
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// RequireAuth aborts requests that did not authenticate.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			abortUnauthorized(c, "Authentication required")
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts requests whose identity is not an administrator.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, "Authentication required")
			return
		}

		if user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Status:  "error",
				Code:    "FORBIDDEN",
				Message: "Admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the identity attached by Authenticate, or nil for an
// anonymous request.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Status:  "error",
		Code:    "UNAUTHORIZED",
		Message: message,
	})
	c.Abort()
}
