package middleware

import (
	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// RequestMeta captures the client IP once per request for audit logging.
func RequestMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, c.ClientIP())
		c.Next()
	}
}

// GetIPFromContext returns the IP captured by RequestMeta, falling back
// to gin's own resolution.
func GetIPFromContext(c *gin.Context) string {
	if ip, exists := c.Get(clientIPKey); exists {
		if s, ok := ip.(string); ok {
			return s
		}
	}
	return c.ClientIP()
}
