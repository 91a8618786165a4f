package sqlstore

import (
	"context"
	"strings"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

const (
	albumColumns = `id, name, description, cover_image, created_at`
	photoColumns = `id, album_id, image, caption, uploaded_at`
)

// AlbumStore implements ports.AlbumRepository.
type AlbumStore struct {
	db *DB
}

// NewAlbumStore creates an album repository.
func NewAlbumStore(db *DB) *AlbumStore {
	return &AlbumStore{db: db}
}

func scanAlbum(row interface{ Scan(...any) error }) (domain.Album, error) {
	var a domain.Album
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.CoverImage, &a.CreatedAt)

	return a, err
}

func (s *AlbumStore) List(ctx context.Context) ([]domain.Album, error) {
	rows, err := s.db.query(ctx, `SELECT `+albumColumns+` FROM albums ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, translate(err, "album", 0)
	}

	return collect(rows, "album", scanAlbum)
}

func (s *AlbumStore) Get(ctx context.Context, id int64) (*domain.Album, error) {
	a, err := scanAlbum(s.db.queryRow(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, "album", id)
	}

	return &a, nil
}

func (s *AlbumStore) Create(ctx context.Context, a *domain.Album) error {
	ts := now()

	err := s.db.queryRow(ctx, `INSERT INTO albums (name, description, cover_image, created_at)
		VALUES (?, ?, ?, ?) RETURNING id`,
		a.Name, a.Description, a.CoverImage, ts,
	).Scan(&a.ID)
	if err != nil {
		return translate(err, "album", 0)
	}

	a.CreatedAt = ts

	return nil
}

func (s *AlbumStore) Update(ctx context.Context, a *domain.Album) error {
	res, err := s.db.exec(ctx, `UPDATE albums SET name = ?, description = ?, cover_image = ? WHERE id = ?`,
		a.Name, a.Description, a.CoverImage, a.ID)
	if err != nil {
		return translate(err, "album", a.ID)
	}

	return checkAffected(res, "album", a.ID)
}

// Delete removes the album; the foreign key cascade removes its photos.
func (s *AlbumStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "albums", "album", id)
}

// PhotoStore implements ports.PhotoRepository.
type PhotoStore struct {
	db *DB
}

// NewPhotoStore creates a photo repository.
func NewPhotoStore(db *DB) *PhotoStore {
	return &PhotoStore{db: db}
}

func scanPhoto(row interface{ Scan(...any) error }) (domain.Photo, error) {
	var p domain.Photo
	err := row.Scan(&p.ID, &p.AlbumID, &p.Image, &p.Caption, &p.UploadedAt)

	return p, err
}

func (s *PhotoStore) List(ctx context.Context) ([]domain.Photo, error) {
	return s.ListFiltered(ctx, ports.PhotoFilter{})
}

func (s *PhotoStore) ListFiltered(ctx context.Context, f ports.PhotoFilter) ([]domain.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos`

	var args []any
	if f.AlbumID != 0 {
		query += ` WHERE album_id = ?`
		args = append(args, f.AlbumID)
	}

	rows, err := s.db.query(ctx, query+` ORDER BY uploaded_at DESC, id DESC`, args...)
	if err != nil {
		return nil, translate(err, "photo", 0)
	}

	return collect(rows, "photo", scanPhoto)
}

func (s *PhotoStore) ListByAlbums(ctx context.Context, ids []int64) (map[int64][]domain.Photo, error) {
	grouped := make(map[int64][]domain.Photo, len(ids))
	if len(ids) == 0 {
		return grouped, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := s.db.query(ctx, `SELECT `+photoColumns+` FROM photos WHERE album_id IN (`+placeholders+`)
		ORDER BY uploaded_at DESC, id DESC`, args...)
	if err != nil {
		return nil, translate(err, "photo", 0)
	}

	photos, err := collect(rows, "photo", scanPhoto)
	if err != nil {
		return nil, err
	}

	for _, p := range photos {
		grouped[p.AlbumID] = append(grouped[p.AlbumID], p)
	}

	return grouped, nil
}

func (s *PhotoStore) Get(ctx context.Context, id int64) (*domain.Photo, error) {
	p, err := scanPhoto(s.db.queryRow(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, "photo", id)
	}

	return &p, nil
}

func (s *PhotoStore) Create(ctx context.Context, p *domain.Photo) error {
	ts := now()

	err := s.db.queryRow(ctx, `INSERT INTO photos (album_id, image, caption, uploaded_at)
		VALUES (?, ?, ?, ?) RETURNING id`,
		p.AlbumID, p.Image, p.Caption, ts,
	).Scan(&p.ID)
	if err != nil {
		return translate(err, "photo", 0)
	}

	p.UploadedAt = ts

	return nil
}

func (s *PhotoStore) Update(ctx context.Context, p *domain.Photo) error {
	res, err := s.db.exec(ctx, `UPDATE photos SET album_id = ?, image = ?, caption = ? WHERE id = ?`,
		p.AlbumID, p.Image, p.Caption, p.ID)
	if err != nil {
		return translate(err, "photo", p.ID)
	}

	return checkAffected(res, "photo", p.ID)
}

func (s *PhotoStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "photos", "photo", id)
}
