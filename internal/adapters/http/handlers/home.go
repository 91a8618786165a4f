package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/app"
)

// HomeHandler serves the landing page payload.
type HomeHandler struct {
	service *app.HomeService
}

// NewHomeHandler creates a home handler.
func NewHomeHandler(service *app.HomeService) *HomeHandler {
	return &HomeHandler{service: service}
}

// Get handles GET /home.
func (h *HomeHandler) Get(c *gin.Context) {
	home, err := h.service.Load(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHomeResponse(home.FeaturedBlogs, home.FeaturedProjects, &home.Quote))
}

// RegisterRoutes adds GET /home to public.
func (h *HomeHandler) RegisterRoutes(public, _ *gin.RouterGroup) {
	public.GET("/home", h.Get)
}
