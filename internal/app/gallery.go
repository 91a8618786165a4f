package app

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

// GalleryService manages albums and their photos.
type GalleryService struct {
	albums *Catalog[domain.Album, *domain.Album]
	photos *Catalog[domain.Photo, *domain.Photo]

	albumRepo ports.AlbumRepository
	photoRepo ports.PhotoRepository
}

// NewGalleryService creates a gallery service.
func NewGalleryService(albums ports.AlbumRepository, photos ports.PhotoRepository) *GalleryService {
	return &GalleryService{
		albums:    NewCatalog[domain.Album](albums, "album"),
		photos:    NewCatalog[domain.Photo](photos, "photo"),
		albumRepo: albums,
		photoRepo: photos,
	}
}

// ListAlbums returns every album with its photos.
func (s *GalleryService) ListAlbums(ctx context.Context) ([]domain.AlbumWithPhotos, error) {
	albums, err := s.albums.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(albums))
	for i, a := range albums {
		ids[i] = a.ID
	}

	grouped, err := s.photoRepo.ListByAlbums(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing album photos: %w", err)
	}

	out := make([]domain.AlbumWithPhotos, len(albums))
	for i, a := range albums {
		out[i] = domain.AlbumWithPhotos{Album: a, Photos: nonNil(grouped[a.ID])}
	}

	return out, nil
}

// GetAlbum loads an album and its photos concurrently.
func (s *GalleryService) GetAlbum(ctx context.Context, id int64) (*domain.AlbumWithPhotos, error) {
	album, photos, err := Parallel2(ctx,
		func(ctx context.Context) (*domain.Album, error) { return s.albums.Get(ctx, id) },
		func(ctx context.Context) ([]domain.Photo, error) {
			return s.photoRepo.ListFiltered(ctx, ports.PhotoFilter{AlbumID: id})
		},
	)
	if err != nil {
		return nil, err
	}

	return &domain.AlbumWithPhotos{Album: *album, Photos: nonNil(photos)}, nil
}

// CreateAlbum stores a new, empty album.
func (s *GalleryService) CreateAlbum(ctx context.Context, a *domain.Album) (*domain.AlbumWithPhotos, error) {
	if err := s.albums.Create(ctx, a); err != nil {
		return nil, err
	}

	return &domain.AlbumWithPhotos{Album: *a, Photos: []domain.Photo{}}, nil
}

// UpdateAlbum applies changes to album id.
func (s *GalleryService) UpdateAlbum(ctx context.Context, id int64, apply func(*domain.Album) error) (*domain.AlbumWithPhotos, error) {
	if _, err := s.albums.Update(ctx, id, apply); err != nil {
		return nil, err
	}

	return s.GetAlbum(ctx, id)
}

// DeleteAlbum removes an album together with its photos.
func (s *GalleryService) DeleteAlbum(ctx context.Context, id int64) error {
	return s.albums.Delete(ctx, id)
}

// ListPhotos lists photos, optionally restricted to one album.
func (s *GalleryService) ListPhotos(ctx context.Context, albumID int64) ([]domain.Photo, error) {
	photos, err := s.photoRepo.ListFiltered(ctx, ports.PhotoFilter{AlbumID: albumID})
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}

	return photos, nil
}

// GetPhoto returns one photo.
func (s *GalleryService) GetPhoto(ctx context.Context, id int64) (*domain.Photo, error) {
	return s.photos.Get(ctx, id)
}

// CreatePhoto stores a photo in an existing album.
func (s *GalleryService) CreatePhoto(ctx context.Context, p *domain.Photo) error {
	if err := s.requireAlbum(ctx, p.AlbumID); err != nil {
		return err
	}

	return s.photos.Create(ctx, p)
}

// UpdatePhoto applies changes to photo id. Moving a photo requires the target album to exist.
func (s *GalleryService) UpdatePhoto(ctx context.Context, id int64, apply func(*domain.Photo) error) (*domain.Photo, error) {
	return s.photos.Update(ctx, id, func(p *domain.Photo) error {
		before := p.AlbumID

		if err := apply(p); err != nil {
			return err
		}

		if p.AlbumID != before {
			return s.requireAlbum(ctx, p.AlbumID)
		}

		return nil
	})
}

// DeletePhoto removes one photo.
func (s *GalleryService) DeletePhoto(ctx context.Context, id int64) error {
	return s.photos.Delete(ctx, id)
}

func (s *GalleryService) requireAlbum(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("album", "is required")
	}

	if _, err := s.albumRepo.Get(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return domain.NewValidationError("album", fmt.Sprintf("album %d does not exist", id))
		}

		return fmt.Errorf("checking album: %w", err)
	}

	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}
