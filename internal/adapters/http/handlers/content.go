package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/app"
	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// BlogHandler serves /blogs.
type BlogHandler struct {
	*resource[domain.Blog, dto.BlogResponse, dto.BlogRequest, dto.BlogPatch, *dto.BlogRequest, *dto.BlogPatch]

	service *app.BlogService
}

// NewBlogHandler creates a blog handler.
func NewBlogHandler(service *app.BlogService) *BlogHandler {
	return &BlogHandler{
		resource: newResource[domain.Blog, dto.BlogResponse, dto.BlogRequest, dto.BlogPatch](service, dto.NewBlogResponse),
		service:  service,
	}
}

// Featured handles GET /blogs/featured.
func (h *BlogHandler) Featured(c *gin.Context) {
	blogs, err := h.service.Featured(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapSlice(blogs, dto.NewBlogResponse))
}

// RegisterRoutes adds the anonymous routes to public and the rest to admin.
func (h *BlogHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	h.registerRead(public.Group("/blogs"))
	public.GET("/blogs/featured", h.Featured)
	h.registerWrite(admin.Group("/blogs"))
}

// ProjectHandler serves /projects.
type ProjectHandler struct {
	*resource[domain.Project, dto.ProjectResponse, dto.ProjectRequest, dto.ProjectPatch, *dto.ProjectRequest, *dto.ProjectPatch]

	service *app.ProjectService
}

// NewProjectHandler creates a project handler.
func NewProjectHandler(service *app.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		resource: newResource[domain.Project, dto.ProjectResponse, dto.ProjectRequest, dto.ProjectPatch](service, dto.NewProjectResponse),
		service:  service,
	}
}

// Featured handles GET /projects/featured.
func (h *ProjectHandler) Featured(c *gin.Context) {
	projects, err := h.service.Featured(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapSlice(projects, dto.NewProjectResponse))
}

// RegisterRoutes adds the anonymous routes to public and the rest to admin.
func (h *ProjectHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	h.registerRead(public.Group("/projects"))
	public.GET("/projects/featured", h.Featured)
	h.registerWrite(admin.Group("/projects"))
}

// CertificateHandler serves /certificates.
type CertificateHandler struct {
	*resource[domain.Certificate, dto.CertificateResponse, dto.CertificateRequest, dto.CertificatePatch, *dto.CertificateRequest, *dto.CertificatePatch]

	service *app.CertificateService
}

// NewCertificateHandler creates a certificate handler.
func NewCertificateHandler(service *app.CertificateService) *CertificateHandler {
	return &CertificateHandler{
		resource: newResource[domain.Certificate, dto.CertificateResponse, dto.CertificateRequest, dto.CertificatePatch](
			service, dto.NewCertificateResponse),
		service: service,
	}
}

// List handles GET /certificates?type=badge|certificate.
func (h *CertificateHandler) List(c *gin.Context) {
	var q dto.CertificateQuery
	if !bindResult(c, dto.BindQueryAndValidate(c, &q)) {
		return
	}

	certs, err := h.service.ListByType(c.Request.Context(), domain.CertificateType(q.Type))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapSlice(certs, dto.NewCertificateResponse))
}

// RegisterRoutes adds the anonymous routes to public and the rest to admin.
func (h *CertificateHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	certs := public.Group("/certificates")
	certs.GET("", h.List)
	certs.GET("/:id", h.Get)
	h.registerWrite(admin.Group("/certificates"))
}
