package domain

import "time"

// AdminUser may manage content once authenticated.
type AdminUser struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Token is an issued API credential. Only the digest of the secret is kept.
// Username is filled on lookup.
type Token struct {
	Digest    string
	UserID    int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is no longer valid at now.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
