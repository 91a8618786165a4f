package dto

import (
	"time"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// AlbumRequest is the full representation accepted by POST and PUT.
type AlbumRequest struct {
	Name        string `json:"name"        validate:"required,notblank,max=100"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
}

// Apply replaces every editable field of a.
func (r *AlbumRequest) Apply(a *domain.Album) error {
	a.Name = r.Name
	a.Description = r.Description
	a.CoverImage = r.CoverImage

	return nil
}

// AlbumPatch carries the fields of a partial update.
type AlbumPatch struct {
	Name        *string `json:"name"        validate:"omitempty,notblank,max=100"`
	Description *string `json:"description"`
	CoverImage  *string `json:"cover_image"`
}

// Apply copies the present fields onto a.
func (r *AlbumPatch) Apply(a *domain.Album) error {
	set(&a.Name, r.Name)
	set(&a.Description, r.Description)
	set(&a.CoverImage, r.CoverImage)

	return nil
}

// AlbumResponse is an album with its photos, newest first.
type AlbumResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CoverImage  string          `json:"cover_image"`
	CreatedAt   time.Time       `json:"created_at"`
	Photos      []PhotoResponse `json:"photos"`
	PhotoCount  int             `json:"photo_count"`
}

// NewAlbumResponse converts a domain album view.
func NewAlbumResponse(a *domain.AlbumWithPhotos) AlbumResponse {
	return AlbumResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		CoverImage:  a.CoverImage,
		CreatedAt:   a.CreatedAt,
		Photos:      MapSlice(a.Photos, NewPhotoResponse),
		PhotoCount:  a.PhotoCount(),
	}
}

// PhotoRequest is the full representation accepted by POST and PUT.
type PhotoRequest struct {
	Album   int64  `json:"album"   validate:"required,gt=0"`
	Image   string `json:"image"   validate:"required,notblank"`
	Caption string `json:"caption" validate:"max=200"`
}

// Apply replaces every editable field of p.
func (r *PhotoRequest) Apply(p *domain.Photo) error {
	p.AlbumID = r.Album
	p.Image = r.Image
	p.Caption = r.Caption

	return nil
}

// PhotoPatch carries the fields of a partial update.
type PhotoPatch struct {
	Album   *int64  `json:"album"   validate:"omitempty,gt=0"`
	Image   *string `json:"image"   validate:"omitempty,notblank"`
	Caption *string `json:"caption" validate:"omitempty,max=200"`
}

// Apply copies the present fields onto p.
func (r *PhotoPatch) Apply(p *domain.Photo) error {
	set(&p.AlbumID, r.Album)
	set(&p.Image, r.Image)
	set(&p.Caption, r.Caption)

	return nil
}

// PhotoResponse is a single photo.
type PhotoResponse struct {
	ID         int64     `json:"id"`
	Album      int64     `json:"album"`
	Image      string    `json:"image"`
	Caption    string    `json:"caption"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewPhotoResponse converts a domain photo.
func NewPhotoResponse(p *domain.Photo) PhotoResponse {
	return PhotoResponse{
		ID:         p.ID,
		Album:      p.AlbumID,
		Image:      p.Image,
		Caption:    p.Caption,
		UploadedAt: p.UploadedAt,
	}
}

// PhotoQuery filters the photo listing by album.
type PhotoQuery struct {
	Album int64 `form:"album" json:"album" validate:"omitempty,gt=0"`
}
