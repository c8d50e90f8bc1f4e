package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"harvest-backend/internal/shared/response"
	"harvest-backend/pkg/jwt"
)

// Context keys set by the auth middleware.
const (
	CtxUserID        = "userID"
	CtxUserRole      = "userRole"
	CtxCooperativeID = "cooperativeID"
)

// Roles carried in JWT claims.
const (
	RoleAdmin       = "admin"
	RoleCooperative = "cooperative"
)

// Auth validates the bearer token and stores the caller's identity in the
// request context.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		if claims.CooperativeID != nil {
			c.Set(CtxCooperativeID, *claims.CooperativeID)
		}

		c.Next()
	}
}

// RequireCooperative ensures the caller's identity resolves to a cooperative
// tenant. Farmer and project routes never trust a client-supplied id.
func RequireCooperative() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != RoleCooperative {
			response.Forbidden(c, "cooperative account required")
			c.Abort()
			return
		}
		if _, ok := c.Get(CtxCooperativeID); !ok {
			response.Unauthorized(c, "account is not linked to a cooperative")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin guards the approval workflow.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRole) != RoleAdmin {
			response.Forbidden(c, "admin account required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CooperativeID returns the tenant scope resolved by Auth.
func CooperativeID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxCooperativeID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
