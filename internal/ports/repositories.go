// Package ports declares the contracts between the portfolio application layer
// and its adapters. Repositories return domain types and domain errors only:
// a missing row is domain.ErrNotFound, a uniqueness clash is domain.ErrConflict,
// an unreachable store is domain.ErrUnavailable.
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// Store is the CRUD surface shared by every content table.
// Create fills in the generated ID and timestamps on the passed value.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id int64) error
}

// BlogRepository persists blog posts, newest first.
type BlogRepository interface {
	Store[domain.Blog]

	// ListFeatured returns at most limit featured posts, newest first.
	ListFeatured(ctx context.Context, limit int) ([]domain.Blog, error)
}

// ProjectRepository persists projects, newest first.
type ProjectRepository interface {
	Store[domain.Project]
	ListFeatured(ctx context.Context, limit int) ([]domain.Project, error)
}

// AlbumRepository persists albums. Deleting an album removes its photos.
type AlbumRepository interface {
	Store[domain.Album]
}

// PhotoFilter narrows photo listings. Zero values match everything.
type PhotoFilter struct {
	AlbumID int64
}

// PhotoRepository persists photos.
type PhotoRepository interface {
	Store[domain.Photo]

	// ListFiltered returns photos matching f, most recently uploaded first.
	ListFiltered(ctx context.Context, f PhotoFilter) ([]domain.Photo, error)

	// ListByAlbums returns the photos of every album in ids, grouped by album id.
	ListByAlbums(ctx context.Context, ids []int64) (map[int64][]domain.Photo, error)
}

// CertificateFilter narrows certificate listings. Zero values match everything.
type CertificateFilter struct {
	Type domain.CertificateType
}

// CertificateRepository persists certificates, most recently issued first.
type CertificateRepository interface {
	Store[domain.Certificate]
	ListFiltered(ctx context.Context, f CertificateFilter) ([]domain.Certificate, error)
}

// Page is a keyset page request over descending ids. After is exclusive; zero starts at the newest row.
type Page struct {
	After int64
	Limit int
}

// ContactRepository persists contact form submissions.
type ContactRepository interface {
	Store[domain.Contact]

	// ListPage returns up to p.Limit submissions older than p.After and whether more exist.
	ListPage(ctx context.Context, p Page) ([]domain.Contact, bool, error)
}

// QuoteRepository persists quotes in ascending id order.
type QuoteRepository interface {
	Store[domain.Quote]

	// ListActive returns every active quote in ascending id order.
	ListActive(ctx context.Context) ([]domain.Quote, error)

	// Exists reports whether a quote with the same text and author is stored.
	Exists(ctx context.Context, text, author string) (bool, error)
}

// AccountRepository persists admin users and their API tokens.
type AccountRepository interface {
	CreateUser(ctx context.Context, user *domain.AdminUser) error
	GetUserByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	CountUsers(ctx context.Context) (int, error)

	CreateToken(ctx context.Context, token *domain.Token) error
	GetToken(ctx context.Context, digest string) (*domain.Token, error)
	DeleteToken(ctx context.Context, digest string) error

	// DeleteExpiredTokens removes tokens expiring at or before now and returns how many went.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// QuoteSource fetches quotes from an external provider.
// Returns domain.ErrUnavailable when the provider cannot be reached.
type QuoteSource interface {
	RandomQuote(ctx context.Context) (*domain.Quote, error)
}
