package sqlstore

import (
	"context"
	"database/sql"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

const blogColumns = `id, title, excerpt, content, image, category, read_time, is_featured, created_at, updated_at`

// BlogStore implements ports.BlogRepository.
type BlogStore struct {
	db *DB
}

// NewBlogStore creates a blog repository.
func NewBlogStore(db *DB) *BlogStore {
	return &BlogStore{db: db}
}

func scanBlog(row interface{ Scan(...any) error }) (domain.Blog, error) {
	var b domain.Blog
	err := row.Scan(&b.ID, &b.Title, &b.Excerpt, &b.Content, &b.Image, &b.Category,
		&b.ReadTime, &b.IsFeatured, &b.CreatedAt, &b.UpdatedAt)

	return b, err
}

func (s *BlogStore) List(ctx context.Context) ([]domain.Blog, error) {
	return s.list(ctx, `SELECT `+blogColumns+` FROM blogs ORDER BY created_at DESC, id DESC`)
}

func (s *BlogStore) ListFeatured(ctx context.Context, limit int) ([]domain.Blog, error) {
	return s.list(ctx, `SELECT `+blogColumns+` FROM blogs WHERE is_featured = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, true, limit)
}

func (s *BlogStore) list(ctx context.Context, query string, args ...any) ([]domain.Blog, error) {
	rows, err := s.db.query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "blog", 0)
	}

	return collect(rows, "blog", scanBlog)
}

func (s *BlogStore) Get(ctx context.Context, id int64) (*domain.Blog, error) {
	b, err := scanBlog(s.db.queryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, "blog", id)
	}

	return &b, nil
}

func (s *BlogStore) Create(ctx context.Context, b *domain.Blog) error {
	ts := now()

	err := s.db.queryRow(ctx, `INSERT INTO blogs
		(title, excerpt, content, image, category, read_time, is_featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		b.Title, b.Excerpt, b.Content, b.Image, b.Category, b.ReadTime, b.IsFeatured, ts, ts,
	).Scan(&b.ID)
	if err != nil {
		return translate(err, "blog", 0)
	}

	b.CreatedAt, b.UpdatedAt = ts, ts

	return nil
}

func (s *BlogStore) Update(ctx context.Context, b *domain.Blog) error {
	ts := now()

	res, err := s.db.exec(ctx, `UPDATE blogs SET title = ?, excerpt = ?, content = ?, image = ?,
		category = ?, read_time = ?, is_featured = ?, updated_at = ? WHERE id = ?`,
		b.Title, b.Excerpt, b.Content, b.Image, b.Category, b.ReadTime, b.IsFeatured, ts, b.ID,
	)
	if err != nil {
		return translate(err, "blog", b.ID)
	}

	if err := checkAffected(res, "blog", b.ID); err != nil {
		return err
	}

	b.UpdatedAt = ts

	return nil
}

func (s *BlogStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "blogs", "blog", id)
}

// collect scans every row with scan and closes rows.
func collect[T any](rows *sql.Rows, entity string, scan func(interface{ Scan(...any) error }) (T, error)) ([]T, error) {
	defer rows.Close()

	items := make([]T, 0)

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, translate(err, entity, 0)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, translate(err, entity, 0)
	}

	return items, nil
}

func deleteByID(ctx context.Context, db *DB, table, entity string, id int64) error {
	res, err := db.exec(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return translate(err, entity, id)
	}

	return checkAffected(res, entity, id)
}
