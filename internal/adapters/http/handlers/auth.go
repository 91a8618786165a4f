package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/portfolio-service/internal/app"
)

// AuthHandler issues and revokes admin tokens.
type AuthHandler struct {
	service *app.AuthService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *app.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /auth/token.
//
// @Summary Exchange admin credentials for a token
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} dto.TokenResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/auth/token [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var body dto.LoginRequest
	if !bindJSON(c, &body) {
		return
	}

	issued, err := h.service.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TokenResponse{
		Token:     issued.Secret,
		Username:  issued.Username,
		ExpiresAt: issued.ExpiresAt,
	})
}

// Logout handles DELETE /auth/token, revoking the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Revoke(c.Request.Context(), middleware.TokenFromHeader(c)); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes adds login to public and logout to admin.
func (h *AuthHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.POST("/auth/token", h.Login)
	admin.DELETE("/auth/token", h.Logout)
}
