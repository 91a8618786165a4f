package sqlstore

import (
	"context"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

const quoteColumns = `id, text, author, is_active, created_at`

// QuoteStore implements ports.QuoteRepository. Listings are in ascending id
// order so the quote of the day sees a stable sequence.
type QuoteStore struct {
	db *DB
}

// NewQuoteStore creates a quote repository.
func NewQuoteStore(db *DB) *QuoteStore {
	return &QuoteStore{db: db}
}

func scanQuote(row interface{ Scan(...any) error }) (domain.Quote, error) {
	var q domain.Quote
	err := row.Scan(&q.ID, &q.Text, &q.Author, &q.Active, &q.CreatedAt)

	return q, err
}

func (s *QuoteStore) List(ctx context.Context) ([]domain.Quote, error) {
	rows, err := s.db.query(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY id`)
	if err != nil {
		return nil, translate(err, "quote", 0)
	}

	return collect(rows, "quote", scanQuote)
}

func (s *QuoteStore) ListActive(ctx context.Context) ([]domain.Quote, error) {
	rows, err := s.db.query(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE is_active = ? ORDER BY id`, true)
	if err != nil {
		return nil, translate(err, "quote", 0)
	}

	return collect(rows, "quote", scanQuote)
}

func (s *QuoteStore) Exists(ctx context.Context, text, author string) (bool, error) {
	var n int

	err := s.db.queryRow(ctx, `SELECT COUNT(*) FROM quotes WHERE text = ? AND author = ?`, text, author).Scan(&n)
	if err != nil {
		return false, translate(err, "quote", 0)
	}

	return n > 0, nil
}

func (s *QuoteStore) Get(ctx context.Context, id int64) (*domain.Quote, error) {
	q, err := scanQuote(s.db.queryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, "quote", id)
	}

	return &q, nil
}

func (s *QuoteStore) Create(ctx context.Context, q *domain.Quote) error {
	ts := now()

	err := s.db.queryRow(ctx, `INSERT INTO quotes (text, author, is_active, created_at)
		VALUES (?, ?, ?, ?) RETURNING id`,
		q.Text, q.Author, q.Active, ts,
	).Scan(&q.ID)
	if err != nil {
		return translate(err, "quote", 0)
	}

	q.CreatedAt = ts

	return nil
}

func (s *QuoteStore) Update(ctx context.Context, q *domain.Quote) error {
	res, err := s.db.exec(ctx, `UPDATE quotes SET text = ?, author = ?, is_active = ? WHERE id = ?`,
		q.Text, q.Author, q.Active, q.ID)
	if err != nil {
		return translate(err, "quote", q.ID)
	}

	return checkAffected(res, "quote", q.ID)
}

func (s *QuoteStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "quotes", "quote", id)
}
