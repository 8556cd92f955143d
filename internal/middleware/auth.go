package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/careflow/booking-api/internal/common"
	"github.com/careflow/booking-api/internal/utils"
)

const (
	UserIDContextKey   = "userID"
	UserRoleContextKey = "userRole"
)

// Auth validates the bearer token and stores the caller's identity in the
// gin context for handlers to use.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			e := common.ErrUnauthorized.WithMsg("Authorization header required")
			c.AbortWithStatusJSON(e.StatusCode, e)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(key, tokenString)
		if err != nil {
			e := common.ErrUnauthorized.WithMsg("Invalid token")
			c.AbortWithStatusJSON(e.StatusCode, e)
			return
		}

		c.Set(UserIDContextKey, claims.UserID)
		c.Set(UserRoleContextKey, claims.Role)

		c.Next()
	}
}

// RequireRoles gates a route to callers holding one of the given roles.
// Must run after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(UserRoleContextKey)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		e := common.ErrForbidden.WithMsg("Permission denied")
		c.AbortWithStatusJSON(e.StatusCode, e)
	}
}
