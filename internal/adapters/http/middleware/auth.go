package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/platform/logging"
)

const (
	// HeaderAuthorization carries "Token <secret>".
	HeaderAuthorization = "Authorization"

	// ContextKeyToken is the gin context key of the authenticated *domain.Token.
	ContextKeyToken = "auth_token"

	// tokenScheme is the Authorization scheme of API tokens.
	tokenScheme = "Token"
)

// TokenAuthenticator resolves a presented token secret.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, secret string) (*domain.Token, error)
}

// TokenFromHeader returns the secret of an "Authorization: Token <secret>"
// header, or "" when the header is missing or uses another scheme.
func TokenFromHeader(c *gin.Context) string {
	scheme, secret, ok := strings.Cut(strings.TrimSpace(c.GetHeader(HeaderAuthorization)), " ")
	if !ok || !strings.EqualFold(scheme, tokenScheme) {
		return ""
	}

	return strings.TrimSpace(secret)
}

// RequireToken returns middleware that admits only requests carrying a valid
// token. The token is stored under ContextKeyToken and the admin name is
// added to the context logger.
func RequireToken(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := TokenFromHeader(c)
		if secret == "" {
			dto.AbortWithError(c, domain.NewUnauthorizedError("credentials were not provided"))
			return
		}

		token, err := auth.Authenticate(c.Request.Context(), secret)
		if err != nil {
			dto.AbortWithError(c, err)
			return
		}

		c.Set(ContextKeyToken, token)
		c.Request = c.Request.WithContext(logging.WithUsername(c.Request.Context(), token.Username))

		c.Next()
	}
}

// GetToken returns the token admitted by RequireToken, or nil.
func GetToken(c *gin.Context) *domain.Token {
	if v, ok := c.Get(ContextKeyToken); ok {
		if token, ok := v.(*domain.Token); ok {
			return token
		}
	}

	return nil
}
