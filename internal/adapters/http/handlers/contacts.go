package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/app"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

// ContactHandler serves /contacts: anonymous submission, admin inbox.
type ContactHandler struct {
	service *app.ContactService
}

// NewContactHandler creates a contact handler.
func NewContactHandler(service *app.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /contacts.
func (h *ContactHandler) Submit(c *gin.Context) {
	var body dto.ContactRequest
	if !bindJSON(c, &body) {
		return
	}

	contact := body.ToDomain()
	if err := h.service.Submit(c.Request.Context(), contact); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ContactAck{ID: contact.ID, SubmittedAt: contact.SubmittedAt})
}

// List handles GET /contacts?cursor=&limit=, newest first.
func (h *ContactHandler) List(c *gin.Context) {
	var q dto.PaginationRequest
	if !bindResult(c, dto.BindQueryAndValidate(c, &q)) {
		return
	}

	after, err := q.After()
	if err != nil {
		dto.RespondWithValidationErrors(c, map[string]string{"cursor": err.Error()})
		return
	}

	contacts, more, err := h.service.ListPage(c.Request.Context(), ports.Page{After: after, Limit: q.GetLimit()})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := dto.MapSlice(contacts, dto.NewContactResponse)
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(items, more, func(r dto.ContactResponse) int64 { return r.ID }))
}

// Get handles GET /contacts/:id.
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	contact, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContactResponse(contact))
}

// MarkRead handles PATCH /contacts/:id with {"is_read": bool}.
func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var body dto.ContactPatch
	if !bindJSON(c, &body) {
		return
	}

	contact, err := h.service.MarkRead(c.Request.Context(), id, *body.IsRead)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContactResponse(contact))
}

// Delete handles DELETE /contacts/:id.
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes adds the anonymous routes to public and the rest to admin.
func (h *ContactHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.POST("/contacts", h.Submit)

	inbox := admin.Group("/contacts")
	inbox.GET("", h.List)
	inbox.GET("/:id", h.Get)
	inbox.PATCH("/:id", h.MarkRead)
	inbox.DELETE("/:id", h.Delete)
}
