package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/pdf-editor-service/pkg/logging"
)

// ContextKeyUserID is the gin context key holding the authenticated user id.
const ContextKeyUserID = "user_id"

// Middleware validates a Bearer token on every request.
func Middleware(service *Service, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			logger.Warn("Invalid authorization header format",
				logging.NewField("ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format. Expected: Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := service.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logger.Warn("Token validation failed",
				logging.NewField("error", err),
				logging.NewField("ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}
