package domain

import (
	"strings"
	"time"
)

// Album groups photos. Deleting an album deletes its photos.
type Album struct {
	ID          int64
	Name        string
	Description string
	CoverImage  string
	CreatedAt   time.Time
}

// Validate checks the album rules.
func (a *Album) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return NewValidationError("name", "is required")
	}

	if runeLen(a.Name) > 100 {
		return NewValidationError("name", "must be at most 100 characters")
	}

	return nil
}

// AlbumWithPhotos is the read view of an album.
type AlbumWithPhotos struct {
	Album
	Photos []Photo
}

// PhotoCount is the number of photos in the album.
func (a *AlbumWithPhotos) PhotoCount() int {
	return len(a.Photos)
}

// Photo is a single image belonging to an album.
type Photo struct {
	ID         int64
	AlbumID    int64
	Image      string
	Caption    string
	UploadedAt time.Time
}

// Validate checks the photo rules.
func (p *Photo) Validate() error {
	switch {
	case p.AlbumID <= 0:
		return NewValidationError("album", "is required")
	case strings.TrimSpace(p.Image) == "":
		return NewValidationError("image", "is required")
	case runeLen(p.Caption) > 200:
		return NewValidationError("caption", "must be at most 200 characters")
	}

	return nil
}
