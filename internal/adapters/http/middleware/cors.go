package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, X-Request-ID, X-Correlation-ID"
	corsExposeHeader = "X-Request-ID, X-Correlation-ID, X-Trace-ID"
)

// CORS returns middleware that lets the listed browser origins call the API.
// A "*" entry allows any other origin with a literal "*" and no credentials;
// only listed origins get credentialed responses. Preflight requests are
// answered with 204.
func CORS(allowedOrigins []string, maxAge time.Duration) gin.HandlerFunc {
	allowedOrigins = normalizeOrigins(allowedOrigins)
	anyOrigin := slices.Contains(allowedOrigins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		c.Writer.Header().Add("Vary", "Origin")

		listed := slices.Contains(allowedOrigins, origin)
		if !anyOrigin && !listed {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}

			c.Next()

			return
		}

		h := c.Writer.Header()
		if listed {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
		} else {
			h.Set("Access-Control-Allow-Origin", "*")
		}

		h.Set("Access-Control-Expose-Headers", corsExposeHeader)

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)

			if maxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(int(maxAge.Seconds())))
			}

			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Next()
	}
}

// normalizeOrigins trims entries and drops trailing slashes, which browsers never send.
func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}

	return out
}
