package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backend/internal/repository"
	"backend/internal/token"
)

// Context keys set by Authenticate for downstream handlers.
const (
	CtxUserID   = "userID"
	CtxRoleID   = "roleID"
	CtxRoleName = "role"
)

// Authenticate creates a Gin middleware that verifies the bearer token and
// resolves the embedded role id to a role name. Missing, malformed or
// expired tokens are all rejected with 401.
func Authenticate(issuer *token.Issuer, roles repository.RoleRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := issuer.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// Users without an assigned role authenticate with an empty role
		// name; they only pass role-agnostic routes.
		roleName := ""
		if claims.RoleID != 0 {
			role, err := roles.GetByID(c.Request.Context(), claims.RoleID)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					logger.Error("Failed to resolve role", zap.Error(err), zap.Int64("role_id", claims.RoleID))
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role"})
					c.Abort()
					return
				}
			} else {
				roleName = role.Name
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRoleID, claims.RoleID)
		c.Set(CtxRoleName, roleName)

		c.Next()
	}
}

// RequireRoles gates a route on the caller's role name. An empty allowed
// set means any authenticated user may pass.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = struct{}{}
	}

	return func(c *gin.Context) {
		if len(allowedSet) == 0 {
			c.Next()
			return
		}

		roleName := c.GetString(CtxRoleName)
		if _, ok := allowedSet[roleName]; !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			c.Abort()
			return
		}

		c.Next()
	}
}
