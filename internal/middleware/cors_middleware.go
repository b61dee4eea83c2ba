package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultAllowedOrigins is the fixed allow-list of first-party origins.
var DefaultAllowedOrigins = []string{
	"https://crm.blkoutuk.cloud",
	"https://blkoutuk.com",
	"https://news.blkoutuk.cloud",
	"https://events.blkoutuk.cloud",
	"https://blog.blkoutuk.cloud",
	"https://ivor.blkoutuk.cloud",
	"https://comms.blkoutuk.cloud",
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
}

// CORS returns middleware for the public community endpoints. Requests
// from an allow-listed origin get that origin echoed back; any other
// origin gets the first allow-listed origin rather than a wildcard, so
// responses are never credential-exposed to arbitrary sites. Preflight
// requests are answered with 204 and a 24-hour cache.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	fallback := allowedOrigins[0]

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowOrigin := fallback
		if origin != "" && allowed[origin] {
			allowOrigin = origin
		}

		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
