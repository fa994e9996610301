package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/catalogbench/backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// AdminAuth requires a bearer token with the admin role. With an empty
// secret the check is disabled, which is how local setups run.
func AdminAuth(secret string, log *slog.Logger) gin.HandlerFunc {
	if secret == "" {
		log.Warn("ADMIN_JWT_SECRET not set, admin routes are unprotected")
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := jwt.ValidateToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if claims.Role != jwt.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Set("adminSubject", claims.Subject)
		c.Next()
	}
}
