package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDHeader carries the verified account id. Authentication happens
// upstream (gateway or auth service); by the time a request reaches this
// process the header holds an already-verified identity.
const userIDHeader = "X-User-Id"

// IdentityMiddleware extracts the verified user identity supplied by the
// upstream auth collaborator and rejects requests without one.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing user identity",
				},
			})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// GetUserID returns the verified user id for the current request
func GetUserID(c *gin.Context) string {
	return c.GetString("userID")
}
