package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the gin context key of the request ID.
	ContextKeyRequestID = "request_id"
)

// RequestID returns middleware that extracts or generates a request ID.
// The ID is echoed in the response, stored for RequestIDFromContext and
// added to the context logger.
func RequestID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderRequestID,
		contextKey: ContextKeyRequestID,
		enrichers:  []ctxEnricher{ContextWithRequestID, logging.WithRequestID},
	})
}

// GetRequestID returns the request ID, or "" when the middleware did not run.
func GetRequestID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyRequestID)
}
