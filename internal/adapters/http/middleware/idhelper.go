package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxIDLength bounds ids accepted from clients; longer ones are replaced.
const maxIDLength = 128

type ctxEnricher func(ctx context.Context, id string) context.Context

type idMiddlewareConfig struct {
	headerName string
	contextKey string
	// enrichers run in order on the request context.
	enrichers []ctxEnricher
}

// createIDMiddleware reuses the inbound id header or mints a UUID, then
// exposes the id on the gin context, the request context and the response.
func createIDMiddleware(cfg idMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(cfg.headerName))
		if id == "" || len(id) > maxIDLength {
			id = uuid.NewString()
		}

		c.Set(cfg.contextKey, id)
		c.Header(cfg.headerName, id)

		ctx := c.Request.Context()
		for _, enrich := range cfg.enrichers {
			ctx = enrich(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func getIDFromContext(c *gin.Context, key string) string {
	return c.GetString(key)
}
