// Package handlers provides the gin handlers of the portfolio API.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
)

// catalog is the service surface shared by every CRUD resource.
type catalog[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, id int64, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// applier is a request body that writes itself onto a domain value.
type applier[T, R any] interface {
	*R
	Apply(item *T) error
}

// resource implements list, get, create, replace, patch and delete for one
// entity. Full is the POST/PUT body and Partial the PATCH body.
type resource[T, Out, Full, Partial any, PF applier[T, Full], PP applier[T, Partial]] struct {
	svc    catalog[T]
	render func(*T) Out
}

func newResource[T, Out, Full, Partial any, PF applier[T, Full], PP applier[T, Partial]](
	svc catalog[T],
	render func(*T) Out,
) *resource[T, Out, Full, Partial, PF, PP] {
	return &resource[T, Out, Full, Partial, PF, PP]{svc: svc, render: render}
}

func (r *resource[T, Out, Full, Partial, PF, PP]) List(c *gin.Context) {
	items, err := r.svc.List(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapSlice(items, r.render))
}

func (r *resource[T, Out, Full, Partial, PF, PP]) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := r.svc.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, r.render(item))
}

func (r *resource[T, Out, Full, Partial, PF, PP]) Create(c *gin.Context) {
	var body Full
	if !bindJSON(c, &body) {
		return
	}

	var item T
	if err := PF(&body).Apply(&item); err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := r.svc.Create(c.Request.Context(), &item); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, r.render(&item))
}

// Replace handles PUT: the body is the full representation.
func (r *resource[T, Out, Full, Partial, PF, PP]) Replace(c *gin.Context) {
	var body Full
	r.update(c, &body, PF(&body).Apply)
}

// Patch handles PATCH: only fields present in the body change.
func (r *resource[T, Out, Full, Partial, PF, PP]) Patch(c *gin.Context) {
	var body Partial
	r.update(c, &body, PP(&body).Apply)
}

func (r *resource[T, Out, Full, Partial, PF, PP]) update(c *gin.Context, body any, apply func(*T) error) {
	id, ok := pathID(c)
	if !ok || !bindJSON(c, body) {
		return
	}

	item, err := r.svc.Update(c.Request.Context(), id, apply)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, r.render(item))
}

func (r *resource[T, Out, Full, Partial, PF, PP]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := r.svc.Delete(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// registerRead adds the anonymous routes of a resource.
func (r *resource[T, Out, Full, Partial, PF, PP]) registerRead(rg *gin.RouterGroup) {
	rg.GET("", r.List)
	rg.GET("/:id", r.Get)
}

// registerWrite adds the authenticated routes of a resource.
func (r *resource[T, Out, Full, Partial, PF, PP]) registerWrite(rg *gin.RouterGroup) {
	rg.POST("", r.Create)
	rg.PUT("/:id", r.Replace)
	rg.PATCH("/:id", r.Patch)
	rg.DELETE("/:id", r.Delete)
}

// pathID parses the :id parameter, writing a 400 when it is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "id must be a positive integer")
		return 0, false
	}

	return id, true
}

// bindJSON decodes and validates the body, writing the error response on failure.
func bindJSON(c *gin.Context, v any) bool {
	return bindResult(c, dto.BindAndValidate(c, v))
}

func bindResult(c *gin.Context, err error) bool {
	if err != nil {
		dto.RespondWithBindingError(c, err)
		return false
	}

	return true
}
