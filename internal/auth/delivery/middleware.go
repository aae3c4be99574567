package delivery

import (
	"net/http"
	"strings"

	"mail-calendar-agent/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a session token issued for the :email path
// parameter. When required is false every request passes through.
func AuthMiddleware(authUsecase usecase.AuthUsecase, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !required {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": true, "message": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": true, "message": "invalid authorization header format"})
			c.Abort()
			return
		}

		email, err := authUsecase.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": true, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		if target := c.Param("email"); target != "" && !strings.EqualFold(target, email) {
			c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "token does not grant access to this mailbox"})
			c.Abort()
			return
		}

		c.Set("email", email)
		c.Next()
	}
}
