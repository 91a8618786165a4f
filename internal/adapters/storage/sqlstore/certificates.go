package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

const certificateColumns = `id, title, issuer, cert_type, image, credential_url, issue_date, created_at`

// CertificateStore implements ports.CertificateRepository.
// Issue dates are stored as YYYY-MM-DD text so both dialects sort them the same way.
type CertificateStore struct {
	db *DB
}

// NewCertificateStore creates a certificate repository.
func NewCertificateStore(db *DB) *CertificateStore {
	return &CertificateStore{db: db}
}

func scanCertificate(row interface{ Scan(...any) error }) (domain.Certificate, error) {
	var (
		c      domain.Certificate
		issued string
		kind   string
	)

	err := row.Scan(&c.ID, &c.Title, &c.Issuer, &kind, &c.Image, &c.CredentialURL, &issued, &c.CreatedAt)
	if err != nil {
		return c, err
	}

	c.Type = domain.CertificateType(kind)

	c.IssueDate, err = time.Parse(domain.IssueDateLayout, issued)
	if err != nil {
		return c, fmt.Errorf("decoding issue date of certificate %d: %w", c.ID, err)
	}

	return c, nil
}

func (s *CertificateStore) List(ctx context.Context) ([]domain.Certificate, error) {
	return s.ListFiltered(ctx, ports.CertificateFilter{})
}

func (s *CertificateStore) ListFiltered(ctx context.Context, f ports.CertificateFilter) ([]domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates`

	var args []any
	if f.Type != "" {
		query += ` WHERE cert_type = ?`
		args = append(args, string(f.Type))
	}

	rows, err := s.db.query(ctx, query+` ORDER BY issue_date DESC, id DESC`, args...)
	if err != nil {
		return nil, translate(err, "certificate", 0)
	}

	return collect(rows, "certificate", scanCertificate)
}

func (s *CertificateStore) Get(ctx context.Context, id int64) (*domain.Certificate, error) {
	c, err := scanCertificate(s.db.queryRow(ctx, `SELECT `+certificateColumns+` FROM certificates WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, "certificate", id)
	}

	return &c, nil
}

func (s *CertificateStore) Create(ctx context.Context, c *domain.Certificate) error {
	ts := now()

	err := s.db.queryRow(ctx, `INSERT INTO certificates
		(title, issuer, cert_type, image, credential_url, issue_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		c.Title, c.Issuer, string(c.Type), c.Image, c.CredentialURL, c.IssueDate.Format(domain.IssueDateLayout), ts,
	).Scan(&c.ID)
	if err != nil {
		return translate(err, "certificate", 0)
	}

	c.CreatedAt = ts

	return nil
}

func (s *CertificateStore) Update(ctx context.Context, c *domain.Certificate) error {
	res, err := s.db.exec(ctx, `UPDATE certificates SET title = ?, issuer = ?, cert_type = ?, image = ?,
		credential_url = ?, issue_date = ? WHERE id = ?`,
		c.Title, c.Issuer, string(c.Type), c.Image, c.CredentialURL, c.IssueDate.Format(domain.IssueDateLayout), c.ID,
	)
	if err != nil {
		return translate(err, "certificate", c.ID)
	}

	return checkAffected(res, "certificate", c.ID)
}

func (s *CertificateStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "certificates", "certificate", id)
}
