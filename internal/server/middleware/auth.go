package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huy11113/cinetaste-ai/pkg/api"
)

// Auth accepts a Bearer token or X-API-Key header matching one of keys.
// With no keys configured every request passes.
func Auth(keys []string) gin.HandlerFunc {
	allowed := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			allowed = append(allowed, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}

		token := c.GetHeader("X-API-Key")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				_ = c.Error(api.Unauthorized("Missing Authorization header or X-API-Key"))
				c.Abort()
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				_ = c.Error(api.Unauthorized("Invalid Authorization header format"))
				c.Abort()
				return
			}
			token = parts[1]
		}

		for _, k := range allowed {
			if subtle.ConstantTimeCompare([]byte(token), k) == 1 {
				c.Next()
				return
			}
		}
		_ = c.Error(api.Unauthorized("Invalid API Key"))
		c.Abort()
	}
}
