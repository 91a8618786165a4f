package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/app"
	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// AlbumHandler serves /albums. Album reads always include the photos.
type AlbumHandler struct {
	service *app.GalleryService
}

// NewAlbumHandler creates an album handler.
func NewAlbumHandler(service *app.GalleryService) *AlbumHandler {
	return &AlbumHandler{service: service}
}

// List handles GET /albums.
func (h *AlbumHandler) List(c *gin.Context) {
	albums, err := h.service.ListAlbums(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapSlice(albums, dto.NewAlbumResponse))
}

// Get handles GET /albums/:id.
func (h *AlbumHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	album, err := h.service.GetAlbum(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAlbumResponse(album))
}

// Create handles POST /albums.
func (h *AlbumHandler) Create(c *gin.Context) {
	var body dto.AlbumRequest
	if !bindJSON(c, &body) {
		return
	}

	var album domain.Album
	_ = body.Apply(&album)

	created, err := h.service.CreateAlbum(c.Request.Context(), &album)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAlbumResponse(created))
}

// Replace handles PUT /albums/:id.
func (h *AlbumHandler) Replace(c *gin.Context) {
	var body dto.AlbumRequest
	h.update(c, &body, body.Apply)
}

// Patch handles PATCH /albums/:id.
func (h *AlbumHandler) Patch(c *gin.Context) {
	var body dto.AlbumPatch
	h.update(c, &body, body.Apply)
}

func (h *AlbumHandler) update(c *gin.Context, body any, apply func(*domain.Album) error) {
	id, ok := pathID(c)
	if !ok || !bindJSON(c, body) {
		return
	}

	album, err := h.service.UpdateAlbum(c.Request.Context(), id, apply)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAlbumResponse(album))
}

// Delete handles DELETE /albums/:id. The album's photos go with it.
func (h *AlbumHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAlbum(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes adds the anonymous routes to public and the rest to admin.
func (h *AlbumHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	albums := public.Group("/albums")
	albums.GET("", h.List)
	albums.GET("/:id", h.Get)

	manage := admin.Group("/albums")
	manage.POST("", h.Create)
	manage.PUT("/:id", h.Replace)
	manage.PATCH("/:id", h.Patch)
	manage.DELETE("/:id", h.Delete)
}

// photoCatalog presents the photo half of the gallery as a catalog.
type photoCatalog struct {
	gallery *app.GalleryService
}

func (p photoCatalog) List(ctx context.Context) ([]domain.Photo, error) {
	return p.gallery.ListPhotos(ctx, 0)
}

func (p photoCatalog) Get(ctx context.Context, id int64) (*domain.Photo, error) {
	return p.gallery.GetPhoto(ctx, id)
}

func (p photoCatalog) Create(ctx context.Context, photo *domain.Photo) error {
	return p.gallery.CreatePhoto(ctx, photo)
}

func (p photoCatalog) Update(ctx context.Context, id int64, apply func(*domain.Photo) error) (*domain.Photo, error) {
	return p.gallery.UpdatePhoto(ctx, id, apply)
}

func (p photoCatalog) Delete(ctx context.Context, id int64) error {
	return p.gallery.DeletePhoto(ctx, id)
}

// PhotoHandler serves /photos.
type PhotoHandler struct {
	*resource[domain.Photo, dto.PhotoResponse, dto.PhotoRequest, dto.PhotoPatch, *dto.PhotoRequest, *dto.PhotoPatch]

	service *app.GalleryService
}

// NewPhotoHandler creates a photo handler.
func NewPhotoHandler(service *app.GalleryService) *PhotoHandler {
	return &PhotoHandler{
		resource: newResource[domain.Photo, dto.PhotoResponse, dto.PhotoRequest, dto.PhotoPatch](
			photoCatalog{gallery: service}, dto.NewPhotoResponse),
		service: service,
	}
}

// List handles GET /photos?album=<id>.
func (h *PhotoHandler) List(c *gin.Context) {
	var q dto.PhotoQuery
	if !bindResult(c, dto.BindQueryAndValidate(c, &q)) {
		return
	}

	photos, err := h.service.ListPhotos(c.Request.Context(), q.Album)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapSlice(photos, dto.NewPhotoResponse))
}

// RegisterRoutes adds the anonymous routes to public and the rest to admin.
func (h *PhotoHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	photos := public.Group("/photos")
	photos.GET("", h.List)
	photos.GET("/:id", h.Get)
	h.registerWrite(admin.Group("/photos"))
}
