package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/app"
	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// QuoteHandler serves the public quote of the day and the admin quote collection.
type QuoteHandler struct {
	*resource[domain.Quote, dto.QuoteResponse, dto.QuoteRequest, dto.QuotePatch, *dto.QuoteRequest, *dto.QuotePatch]

	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		resource: newResource[domain.Quote, dto.QuoteResponse, dto.QuoteRequest, dto.QuotePatch](service, dto.NewQuoteResponse),
		service:  service,
	}
}

// Daily handles GET /api/v1/quote.
// Returns today's quote, or the fallback quote when none is active.
//
// @Summary Quote of the day
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.DailyQuoteResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quote [get]
func (h *QuoteHandler) Daily(c *gin.Context) {
	quote, err := h.service.Daily(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDailyQuoteResponse(&quote))
}

// Import handles POST /api/v1/quotes/import with an optional {"count": n}.
//
// @Summary Import quotes from the external provider
// @Tags quotes
// @Accept json
// @Produce json
// @Success 201 {object} dto.ImportResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes/import [post]
func (h *QuoteHandler) Import(c *gin.Context) {
	var body dto.ImportRequest
	if !bindResult(c, dto.BindOptionalAndValidate(c, &body)) {
		return
	}

	result, err := h.service.Import(c.Request.Context(), body.GetCount())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ImportResponse{
		Imported: dto.MapSlice(result.Imported, dto.NewQuoteResponse),
		Skipped:  result.Skipped,
	})
}

// RegisterRoutes adds GET /quote to public and the collection to admin.
func (h *QuoteHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.GET("/quote", h.Daily)

	quotes := admin.Group("/quotes")
	quotes.POST("/import", h.Import)
	h.registerRead(quotes)
	h.registerWrite(quotes)
}
