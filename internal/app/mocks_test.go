package app

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

// mockStore is a testify mock of ports.Store[T]; repositories embed it.
type mockStore[T any] struct {
	mock.Mock
}

func (m *mockStore[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]T)

	return items, args.Error(1)
}

func (m *mockStore[T]) Get(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*T)

	return item, args.Error(1)
}

func (m *mockStore[T]) Create(ctx context.Context, item *T) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockStore[T]) Update(ctx context.Context, item *T) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockStore[T]) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockBlogRepo struct {
	mockStore[domain.Blog]
}

func (m *mockBlogRepo) ListFeatured(ctx context.Context, limit int) ([]domain.Blog, error) {
	args := m.Called(ctx, limit)
	blogs, _ := args.Get(0).([]domain.Blog)

	return blogs, args.Error(1)
}

type mockProjectRepo struct {
	mockStore[domain.Project]
}

func (m *mockProjectRepo) ListFeatured(ctx context.Context, limit int) ([]domain.Project, error) {
	args := m.Called(ctx, limit)
	projects, _ := args.Get(0).([]domain.Project)

	return projects, args.Error(1)
}

type mockAlbumRepo struct {
	mockStore[domain.Album]
}

type mockPhotoRepo struct {
	mockStore[domain.Photo]
}

func (m *mockPhotoRepo) ListFiltered(ctx context.Context, f ports.PhotoFilter) ([]domain.Photo, error) {
	args := m.Called(ctx, f)
	photos, _ := args.Get(0).([]domain.Photo)

	return photos, args.Error(1)
}

func (m *mockPhotoRepo) ListByAlbums(ctx context.Context, ids []int64) (map[int64][]domain.Photo, error) {
	args := m.Called(ctx, ids)
	grouped, _ := args.Get(0).(map[int64][]domain.Photo)

	return grouped, args.Error(1)
}

type mockContactRepo struct {
	mockStore[domain.Contact]
}

func (m *mockContactRepo) ListPage(ctx context.Context, p ports.Page) ([]domain.Contact, bool, error) {
	args := m.Called(ctx, p)
	contacts, _ := args.Get(0).([]domain.Contact)

	return contacts, args.Bool(1), args.Error(2)
}

type mockQuoteRepo struct {
	mockStore[domain.Quote]
}

func (m *mockQuoteRepo) ListActive(ctx context.Context) ([]domain.Quote, error) {
	args := m.Called(ctx)
	quotes, _ := args.Get(0).([]domain.Quote)

	return quotes, args.Error(1)
}

func (m *mockQuoteRepo) Exists(ctx context.Context, text, author string) (bool, error) {
	args := m.Called(ctx, text, author)
	return args.Bool(0), args.Error(1)
}

type mockQuoteSource struct {
	mock.Mock
}

func (m *mockQuoteSource) RandomQuote(ctx context.Context) (*domain.Quote, error) {
	args := m.Called(ctx)
	q, _ := args.Get(0).(*domain.Quote)

	return q, args.Error(1)
}

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) CreateUser(ctx context.Context, user *domain.AdminUser) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockAccounts) GetUserByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*domain.AdminUser)

	return user, args.Error(1)
}

func (m *mockAccounts) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockAccounts) CreateToken(ctx context.Context, token *domain.Token) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAccounts) GetToken(ctx context.Context, digest string) (*domain.Token, error) {
	args := m.Called(ctx, digest)
	token, _ := args.Get(0).(*domain.Token)

	return token, args.Error(1)
}

func (m *mockAccounts) DeleteToken(ctx context.Context, digest string) error {
	return m.Called(ctx, digest).Error(0)
}

func (m *mockAccounts) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	n, _ := args.Get(0).(int64)

	return n, args.Error(1)
}

// flagSet is a map-backed ports.FeatureFlags.
type flagSet map[string]bool

func (f flagSet) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	if v, ok := f[flag]; ok {
		return v
	}

	return defaultValue
}

var (
	_ ports.BlogRepository    = (*mockBlogRepo)(nil)
	_ ports.ProjectRepository = (*mockProjectRepo)(nil)
	_ ports.AlbumRepository   = (*mockAlbumRepo)(nil)
	_ ports.PhotoRepository   = (*mockPhotoRepo)(nil)
	_ ports.ContactRepository = (*mockContactRepo)(nil)
	_ ports.QuoteRepository   = (*mockQuoteRepo)(nil)
	_ ports.QuoteSource       = (*mockQuoteSource)(nil)
	_ ports.AccountRepository = (*mockAccounts)(nil)
	_ ports.FeatureFlags      = flagSet(nil)
)

type mockCertificateRepo struct {
	mockStore[domain.Certificate]
}

func (m *mockCertificateRepo) ListFiltered(ctx context.Context, f ports.CertificateFilter) ([]domain.Certificate, error) {
	args := m.Called(ctx, f)
	certs, _ := args.Get(0).([]domain.Certificate)

	return certs, args.Error(1)
}
