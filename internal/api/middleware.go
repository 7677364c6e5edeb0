package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/booking-backend/internal/auth"
)

// RequireManager ensures the authenticated user can administer the
// organization. It MUST be used after auth.AuthRequired middleware.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := auth.GetRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if role != "manager" && role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: manager access required"})
			return
		}

		c.Next()
	}
}
