package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// getClientIP keys rate limiting. Forwarding headers (X-Forwarded-For,
// X-Real-IP) only count when the request came through one of the engine's
// trusted proxies; gin does that check in ClientIP.
func getClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return host
	}
	return c.Request.RemoteAddr
}
