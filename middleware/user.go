package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller's identity, set by the upstream gateway.
const UserIDHeader = "X-User-ID"

const userIDKey = "userID"

// RequireUserID rejects requests without a caller identity and stores it in
// the context for handlers.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing " + UserIDHeader + " header"})
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserID returns the identity stored by RequireUserID.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
