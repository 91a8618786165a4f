package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
)

const (
	// HeaderCorrelationID is the header name for correlation ID.
	// Unlike the request ID it spans every hop of one user action, so an
	// inbound value is kept as is.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key of the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that propagates or starts a correlation ID.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		contextKey: ContextKeyCorrelationID,
		enrichers:  []ctxEnricher{ContextWithCorrelationID, logging.WithCorrelationID},
	})
}

// GetCorrelationID returns the correlation ID, or "" when the middleware did not run.
func GetCorrelationID(c *gin.Context) string {
	return getIDFromContext(c, ContextKeyCorrelationID)
}
