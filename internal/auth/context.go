package auth

import "github.com/gin-gonic/gin"

func stringFromContext(c *gin.Context, key string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return stringFromContext(c, "userID")
}

// GetOrgID returns the organization the caller acts for, or empty string.
func GetOrgID(c *gin.Context) string {
	return stringFromContext(c, "orgID")
}

// GetRole returns the caller's role within the organization, or empty string.
func GetRole(c *gin.Context) string {
	return stringFromContext(c, "role")
}
