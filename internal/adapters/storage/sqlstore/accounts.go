package sqlstore

import (
	"context"
	"time"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// AccountStore implements ports.AccountRepository.
type AccountStore struct {
	db *DB
}

// NewAccountStore creates an admin account repository.
func NewAccountStore(db *DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) CreateUser(ctx context.Context, u *domain.AdminUser) error {
	ts := now()

	err := s.db.queryRow(ctx, `INSERT INTO admin_users (username, password_hash, created_at)
		VALUES (?, ?, ?) RETURNING id`,
		u.Username, u.PasswordHash, ts,
	).Scan(&u.ID)
	if err != nil {
		return translate(err, "admin user", 0)
	}

	u.CreatedAt = ts

	return nil
}

func (s *AccountStore) GetUserByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	var u domain.AdminUser

	err := s.db.queryRow(ctx, `SELECT id, username, password_hash, created_at FROM admin_users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translate(err, "admin user", 0)
	}

	return &u, nil
}

func (s *AccountStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.queryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, translate(err, "admin user", 0)
	}

	return n, nil
}

func (s *AccountStore) CreateToken(ctx context.Context, t *domain.Token) error {
	_, err := s.db.exec(ctx, `INSERT INTO api_tokens (digest, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		t.Digest, t.UserID, t.CreatedAt.UTC(), t.ExpiresAt.UTC())

	return translate(err, "token", 0)
}

// GetToken looks a token up by the digest of its secret, along with its owner's username.
func (s *AccountStore) GetToken(ctx context.Context, digest string) (*domain.Token, error) {
	var t domain.Token

	err := s.db.queryRow(ctx, `SELECT t.digest, t.user_id, u.username, t.created_at, t.expires_at
		FROM api_tokens t JOIN admin_users u ON u.id = t.user_id WHERE t.digest = ?`,
		digest,
	).Scan(&t.Digest, &t.UserID, &t.Username, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return nil, translate(err, "token", 0)
	}

	return &t, nil
}

func (s *AccountStore) DeleteToken(ctx context.Context, digest string) error {
	res, err := s.db.exec(ctx, `DELETE FROM api_tokens WHERE digest = ?`, digest)
	if err != nil {
		return translate(err, "token", 0)
	}

	return checkAffected(res, "token", 0)
}

func (s *AccountStore) DeleteExpiredTokens(ctx context.Context, at time.Time) (int64, error) {
	res, err := s.db.exec(ctx, `DELETE FROM api_tokens WHERE expires_at <= ?`, at.UTC())
	if err != nil {
		return 0, translate(err, "token", 0)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, translate(err, "token", 0)
	}

	return n, nil
}
