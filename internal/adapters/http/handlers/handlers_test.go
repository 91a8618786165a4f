package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/flags"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/portfolio-service/internal/adapters/storage/sqlstore"
	"github.com/jsamuelsen/portfolio-service/internal/app"
	"github.com/jsamuelsen/portfolio-service/internal/domain"
	"github.com/jsamuelsen/portfolio-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testAdmin    = "admin"
	testPassword = "correct horse battery staple"
)

// fixedDay is the clock of every test API.
var fixedDay = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

type stubSource struct {
	mu     sync.Mutex
	quotes []*domain.Quote
	next   int
}

func (s *stubSource) RandomQuote(context.Context) (*domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.quotes) {
		return nil, domain.NewUnavailableError("quotes-api", "exhausted")
	}

	q := s.quotes[s.next]
	s.next++

	return q, nil
}

type apiOptions struct {
	flags  map[string]bool
	source ports.QuoteSource
}

// testAPI is the full route table over a fresh SQLite database.
type testAPI struct {
	engine *gin.Engine
	db     *sqlstore.DB
	auth   *app.AuthService
	quotes *app.QuoteService
}

func newTestAPI(t testing.TB, opts apiOptions) *testAPI {
	t.Helper()

	ctx := context.Background()

	db, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver: string(sqlstore.DialectSQLite),
		DSN:    "file:" + filepath.Join(t.TempDir(), "portfolio.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	featureFlags := flags.NewStatic(opts.flags)
	clock := func() time.Time { return fixedDay }

	blogs := app.NewBlogService(sqlstore.NewBlogStore(db))
	projects := app.NewProjectService(sqlstore.NewProjectStore(db))
	certs := app.NewCertificateService(sqlstore.NewCertificateStore(db))
	gallery := app.NewGalleryService(sqlstore.NewAlbumStore(db), sqlstore.NewPhotoStore(db))
	contacts := app.NewContactService(app.ContactServiceConfig{
		Repo:  sqlstore.NewContactStore(db),
		Flags: featureFlags,
	})

	quoteCfg := app.QuoteServiceConfig{
		Repo:  sqlstore.NewQuoteStore(db),
		Flags: featureFlags,
		Clock: clock,
	}
	if opts.source != nil {
		quoteCfg.Source = opts.source
	}

	quotes := app.NewQuoteService(quoteCfg)
	auth := app.NewAuthService(app.AuthServiceConfig{
		Repo:       sqlstore.NewAccountStore(db),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
		Clock:      clock,
	})

	engine := gin.New()
	public := engine.Group("/api/v1")
	admin := public.Group("", middleware.RequireToken(auth))

	for _, h := range []interface {
		RegisterRoutes(public, admin *gin.RouterGroup)
	}{
		NewBlogHandler(blogs),
		NewProjectHandler(projects),
		NewCertificateHandler(certs),
		NewAlbumHandler(gallery),
		NewPhotoHandler(gallery),
		NewContactHandler(contacts),
		NewQuoteHandler(quotes),
		NewHomeHandler(app.NewHomeService(blogs, projects, quotes)),
		NewAuthHandler(auth),
	} {
		h.RegisterRoutes(public, admin)
	}

	return &testAPI{engine: engine, db: db, auth: auth, quotes: quotes}
}

// login creates the admin user and returns a fresh token.
func (a *testAPI) login(t testing.TB) string {
	t.Helper()

	_, err := a.auth.CreateAdmin(context.Background(), testAdmin, testPassword)
	require.NoError(t, err)

	issued, err := a.auth.Login(context.Background(), testAdmin, testPassword)
	require.NoError(t, err)

	return issued.Secret
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set(middleware.HeaderAuthorization, "Token "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	return w
}

func decode[T any](t testing.TB, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func requireError(t testing.TB, w *httptest.ResponseRecorder, status int, code string) dto.ErrorResponse {
	t.Helper()

	require.Equal(t, status, w.Code, w.Body.String())
	resp := decode[dto.ErrorResponse](t, w)
	require.Equal(t, code, resp.Error.Code)

	return resp
}
