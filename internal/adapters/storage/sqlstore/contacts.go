package sqlstore

import (
	"context"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

const contactColumns = `id, name, email, phone, message, submitted_at, is_read`

// ContactStore implements ports.ContactRepository.
type ContactStore struct {
	db *DB
}

// NewContactStore creates a contact repository.
func NewContactStore(db *DB) *ContactStore {
	return &ContactStore{db: db}
}

func scanContact(row interface{ Scan(...any) error }) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.SubmittedAt, &c.IsRead)

	return c, err
}

func (s *ContactStore) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := s.db.query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, translate(err, "contact", 0)
	}

	return collect(rows, "contact", scanContact)
}

// ListPage pages by descending id. One extra row is fetched to learn whether more exist.
func (s *ContactStore) ListPage(ctx context.Context, p ports.Page) ([]domain.Contact, bool, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`

	args := make([]any, 0, 2)
	if p.After > 0 {
		query += ` WHERE id < ?`
		args = append(args, p.After)
	}

	args = append(args, p.Limit+1)

	rows, err := s.db.query(ctx, query+` ORDER BY id DESC LIMIT ?`, args...)
	if err != nil {
		return nil, false, translate(err, "contact", 0)
	}

	contacts, err := collect(rows, "contact", scanContact)
	if err != nil {
		return nil, false, err
	}

	if len(contacts) > p.Limit {
		return contacts[:p.Limit], true, nil
	}

	return contacts, false, nil
}

func (s *ContactStore) Get(ctx context.Context, id int64) (*domain.Contact, error) {
	c, err := scanContact(s.db.queryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, "contact", id)
	}

	return &c, nil
}

func (s *ContactStore) Create(ctx context.Context, c *domain.Contact) error {
	ts := now()

	err := s.db.queryRow(ctx, `INSERT INTO contacts (name, email, phone, message, submitted_at, is_read)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		c.Name, c.Email, c.Phone, c.Message, ts, c.IsRead,
	).Scan(&c.ID)
	if err != nil {
		return translate(err, "contact", 0)
	}

	c.SubmittedAt = ts

	return nil
}

func (s *ContactStore) Update(ctx context.Context, c *domain.Contact) error {
	res, err := s.db.exec(ctx, `UPDATE contacts SET name = ?, email = ?, phone = ?, message = ?, is_read = ?
		WHERE id = ?`,
		c.Name, c.Email, c.Phone, c.Message, c.IsRead, c.ID)
	if err != nil {
		return translate(err, "contact", c.ID)
	}

	return checkAffected(res, "contact", c.ID)
}

func (s *ContactStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "contacts", "contact", id)
}
