package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ptr[T any](v T) *T { return &v }

func newTestContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	return c, w
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeTooLarge, http.StatusRequestEntityTooLarge},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", domain.NewNotFoundError("blog", 4), http.StatusNotFound, ErrorCodeNotFound, "blog 4 not found"},
		{"conflict", domain.NewConflictError("quote", "already stored"), http.StatusConflict, ErrorCodeConflict, "quote conflict: already stored"},
		{"validation", domain.NewValidationError("email", "invalid"), http.StatusBadRequest, ErrorCodeValidation, "validation failed for email: invalid"},
		{"unauthorized hides reason", domain.NewUnauthorizedError("token expired"), http.StatusUnauthorized, ErrorCodeUnauthorized, msgUnauthorized},
		{"forbidden", domain.NewForbiddenError("submit contact", "disabled"), http.StatusForbidden, ErrorCodeForbidden, `operation "submit contact" forbidden: disabled`},
		{"unavailable", domain.NewUnavailableError("database", "down"), http.StatusServiceUnavailable, ErrorCodeUnavailable, `service "database" unavailable: down`},
		{"wrapped", fmt.Errorf("loading photo: %w", domain.NewNotFoundError("photo", 2)), http.StatusNotFound, ErrorCodeNotFound, "photo 2 not found"},
		{"wrapped unavailable", fmt.Errorf("listing active quotes: %w", domain.NewUnavailableError("database", "database is busy")), http.StatusServiceUnavailable, ErrorCodeUnavailable, `service "database" unavailable: database is busy`},
		{"wrapped conflict", fmt.Errorf("storing quote: %w", domain.NewConflictError("quote", "already exists")), http.StatusConflict, ErrorCodeConflict, "quote conflict: already exists"},
		{"wrapped validation", fmt.Errorf("creating blog: %w", domain.NewValidationError("title", "is required")), http.StatusBadRequest, ErrorCodeValidation, "validation failed for title: is required"},
		{"wrapped forbidden", fmt.Errorf("importing: %w", domain.NewForbiddenError("import quotes", "disabled")), http.StatusForbidden, ErrorCodeForbidden, `operation "import quotes" forbidden: disabled`},
		{"bare sentinel", fmt.Errorf("reading album 3: %w", domain.ErrNotFound), http.StatusNotFound, ErrorCodeNotFound, "not found"},
		{"deadline", fmt.Errorf("listing blogs: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrorCodeTimeout, "request timeout exceeded"},
		{"unknown hides text", errors.New("pq: relation does not exist"), http.StatusInternalServerError, ErrorCodeInternal, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestMapDomainError_Nil(t *testing.T) {
	status, resp := MapDomainError(nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
}

func TestMapDomainError_ValidationDetails(t *testing.T) {
	_, resp := MapDomainError(domain.NewValidationError("cert_type", "must be badge or certificate"))
	assert.Equal(t, map[string]string{"cert_type": "must be badge or certificate"}, resp.Error.Details)

	_, resp = MapDomainError(domain.NewValidationError("", "empty update"))
	assert.Nil(t, resp.Error.Details)
}

func TestRespondWithBindingError(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		maxBytes int64
		status   int
		code     string
	}{
		{name: "rule violation", body: `{"author":"Anon"}`, status: http.StatusBadRequest, code: ErrorCodeValidation},
		{name: "malformed", body: `{"text":`, status: http.StatusBadRequest, code: ErrorCodeBadRequest},
		{name: "over the cap", body: `{"text":"` + strings.Repeat("x", 64) + `"}`, maxBytes: 16, status: http.StatusRequestEntityTooLarge, code: ErrorCodeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, tt.body)
			if tt.maxBytes > 0 {
				c.Request.Body = http.MaxBytesReader(w, c.Request.Body, tt.maxBytes)
			}

			var req QuoteRequest
			err := BindAndValidate(c, &req)
			require.Error(t, err)

			RespondWithBindingError(c, err)

			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleError_WritesEnvelope(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")

	HandleError(c, domain.NewNotFoundError("album", 9))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.Empty(t, resp.TraceID)
	assert.NotContains(t, w.Body.String(), "traceId")
}

func TestAbortWithError_StopsChain(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")

	AbortWithError(c, domain.NewUnauthorizedError("unknown token"))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "unknown token")
}

func TestAbortWithErrorCode(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")

	AbortWithErrorCode(c, ErrorCodeTimeout, "request timeout exceeded")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.JSONEq(t, `{"error":{"code":"TIMEOUT","message":"request timeout exceeded"}}`, w.Body.String())
}

func TestRespondWithValidationErrors(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "")

	RespondWithValidationErrors(c, map[string]string{"title": "this field is required"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"error":{"code":"VALIDATION_ERROR","message":"request validation failed","details":{"title":"this field is required"}}}`,
		w.Body.String())
}

func TestPaginationRequest_GetLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{1, 1},
		{50, 50},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
	}

	for _, tt := range tests {
		p := PaginationRequest{Limit: tt.limit}
		assert.Equal(t, tt.want, p.GetLimit(), "limit %d", tt.limit)
	}
}

func TestPaginationRequest_After(t *testing.T) {
	first := PaginationRequest{}
	after, err := first.After()
	require.NoError(t, err)
	assert.Zero(t, after)

	next := PaginationRequest{Cursor: EncodeCursor(&Cursor{After: 42})}
	after, err = next.After()
	require.NoError(t, err)
	assert.Equal(t, int64(42), after)

	for _, bad := range []string{"%%%", "bm90LWpzb24", EncodeCursor(&Cursor{After: -1})} {
		_, err = (&PaginationRequest{Cursor: bad}).After()
		assert.ErrorIs(t, err, ErrInvalidCursor, bad)
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	id := func(c ContactResponse) int64 { return c.ID }

	page := NewPaginatedResponse([]ContactResponse{{ID: 9}, {ID: 7}}, true, id)
	assert.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)

	cur, err := DecodeCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cur.After)

	last := NewPaginatedResponse([]ContactResponse{{ID: 3}}, false, id)
	assert.False(t, last.HasMore)
	assert.Empty(t, last.NextCursor)

	empty := NewPaginatedResponse[ContactResponse](nil, false, id)
	assert.NotNil(t, empty.Items)

	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"hasMore":false}`, string(raw))
}

func TestEncodeCursor_Nil(t *testing.T) {
	assert.Empty(t, EncodeCursor(nil))
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		fields  map[string]string
	}{
		{
			name: "valid",
			body: `{"name":"Ada","email":"ada@example.com","message":"Hello"}`,
		},
		{
			name:    "malformed json",
			body:    `{"name":`,
			wantErr: ErrBinding,
		},
		{
			name:    "missing fields",
			body:    `{"email":"ada@example.com"}`,
			wantErr: ErrValidation,
			fields:  map[string]string{"name": "this field is required", "message": "this field is required"},
		},
		{
			name:    "blank name and bad email",
			body:    `{"name":"   ","email":"nope","message":"Hi"}`,
			wantErr: ErrValidation,
			fields:  map[string]string{"name": "must not be blank", "email": "must be a valid email address"},
		},
		{
			name:    "phone too long",
			body:    `{"name":"Ada","email":"ada@example.com","message":"Hi","phone":"012345678901234567890"}`,
			wantErr: ErrValidation,
			fields:  map[string]string{"phone": "must be at most 20 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, tt.body)

			var req ContactRequest
			err := BindAndValidate(c, &req)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "Ada", req.Name)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			if tt.fields != nil {
				assert.True(t, IsValidationError(err))
				assert.Equal(t, tt.fields, ValidationErrors(err))
			}
		})
	}
}

func TestBindOptionalAndValidate(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "")

	var req ImportRequest
	require.NoError(t, BindOptionalAndValidate(c, &req))
	assert.Equal(t, 1, req.GetCount())

	c, _ = newTestContext(http.MethodPost, `{"count":4}`)
	req = ImportRequest{}
	require.NoError(t, BindOptionalAndValidate(c, &req))
	assert.Equal(t, 4, req.GetCount())

	c, _ = newTestContext(http.MethodPost, `{"count":11}`)
	err := BindOptionalAndValidate(c, &ImportRequest{})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, map[string]string{"count": "must be less than or equal to 10"}, ValidationErrors(err))

	c, _ = newTestContext(http.MethodPost, `[`)
	assert.ErrorIs(t, BindOptionalAndValidate(c, &ImportRequest{}), ErrBinding)
}

func TestBindQueryAndValidate(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?type=badge", nil)

	var q CertificateQuery
	require.NoError(t, BindQueryAndValidate(c, &q))
	assert.Equal(t, "badge", q.Type)

	c.Request = httptest.NewRequest(http.MethodGet, "/?type=diploma", nil)
	err := BindQueryAndValidate(c, &CertificateQuery{})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, map[string]string{"type": "must be one of: badge certificate"}, ValidationErrors(err))

	c.Request = httptest.NewRequest(http.MethodGet, "/?album=abc", nil)
	assert.ErrorIs(t, BindQueryAndValidate(c, &PhotoQuery{}), ErrBinding)
}

func TestValidate_RequestRules(t *testing.T) {
	tests := []struct {
		name   string
		req    any
		fields map[string]string
	}{
		{
			name:   "blog title too long",
			req:    &BlogRequest{Title: strings.Repeat("t", 201), Excerpt: "e", Content: "c"},
			fields: map[string]string{"title": "must be at most 200 characters"},
		},
		{
			name:   "project with blank technology",
			req:    &ProjectRequest{Title: "t", Description: "d", Technologies: []string{"go", " "}},
			fields: map[string]string{"technologies[1]": "must not be blank"},
		},
		{
			name:   "project with bad url",
			req:    &ProjectRequest{Title: "t", Description: "d", GithubURL: "not a url"},
			fields: map[string]string{"github_url": "must be a valid URL"},
		},
		{
			name:   "certificate date and type",
			req:    &CertificateRequest{Title: "t", Issuer: "i", CertType: "diploma", IssueDate: "2024-13-01"},
			fields: map[string]string{"cert_type": "must be one of: badge certificate", "issue_date": "must be a date formatted as 2006-01-02"},
		},
		{
			name:   "photo without album",
			req:    &PhotoRequest{Image: "a.jpg"},
			fields: map[string]string{"album": "this field is required"},
		},
		{
			name:   "patch fields are optional",
			req:    &BlogPatch{},
			fields: nil,
		},
		{
			name:   "patch still checks present fields",
			req:    &QuotePatch{Author: ptr(strings.Repeat("a", 101))},
			fields: map[string]string{"author": "must be at most 100 characters"},
		},
		{
			name:   "contact patch needs is_read",
			req:    &ContactPatch{},
			fields: map[string]string{"is_read": "this field is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)

			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.fields, ValidationErrors(err))
		})
	}
}

func TestValidationMessage_UnknownTag(t *testing.T) {
	type odd struct {
		Code string `json:"code" validate:"alpha"`
	}

	err := Validate(&odd{Code: "123"})
	assert.Equal(t, map[string]string{"code": "failed validation: alpha"}, ValidationErrors(err))
}

func TestBlogPatch_AppliesOnlyPresentFields(t *testing.T) {
	blog := domain.Blog{Title: "Old", Excerpt: "Keep", Content: "Body", IsFeatured: true}

	patch := BlogPatch{Title: ptr("New"), IsFeatured: ptr(false)}
	require.NoError(t, patch.Apply(&blog))

	assert.Equal(t, "New", blog.Title)
	assert.Equal(t, "Keep", blog.Excerpt)
	assert.Equal(t, "Body", blog.Content)
	assert.False(t, blog.IsFeatured)
}

func TestBlogRequest_ReplacesEveryField(t *testing.T) {
	blog := domain.Blog{ID: 3, Title: "Old", Category: "go", IsFeatured: true}

	req := BlogRequest{Title: "New", Excerpt: "E", Content: "C"}
	require.NoError(t, req.Apply(&blog))

	assert.Equal(t, int64(3), blog.ID)
	assert.Equal(t, "New", blog.Title)
	assert.Empty(t, blog.Category)
	assert.False(t, blog.IsFeatured)
}

func TestCertificateRequest_Apply(t *testing.T) {
	var cert domain.Certificate

	req := CertificateRequest{Title: "CKA", Issuer: "CNCF", CertType: "certificate", IssueDate: "2023-06-01"}
	require.NoError(t, req.Apply(&cert))

	assert.Equal(t, domain.CertificateTypeCertificate, cert.Type)
	assert.Equal(t, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC), cert.IssueDate)
	assert.Equal(t, "2023-06-01", NewCertificateResponse(&cert).IssueDate)

	bad := CertificatePatch{IssueDate: ptr("yesterday")}
	err := bad.Apply(&cert)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "issue_date", ve.Field)
}

func TestQuoteRequest_DefaultsActive(t *testing.T) {
	var q domain.Quote

	require.NoError(t, (&QuoteRequest{Text: "t", Author: "a"}).Apply(&q))
	assert.True(t, q.Active)

	require.NoError(t, (&QuoteRequest{Text: "t", Author: "a", IsActive: ptr(false)}).Apply(&q))
	assert.False(t, q.Active)

	require.NoError(t, (&QuotePatch{Text: ptr("u")}).Apply(&q))
	assert.False(t, q.Active)
	assert.Equal(t, "u", q.Text)
}

func TestDailyQuoteResponse_OmitsFallbackID(t *testing.T) {
	raw, err := json.Marshal(NewDailyQuoteResponse(&domain.FallbackQuote))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Stay hungry, stay foolish.","author":"Steve Jobs"}`, string(raw))

	raw, err = json.Marshal(NewDailyQuoteResponse(&domain.Quote{ID: 5, Text: "A", Author: "Alice"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"text":"A","author":"Alice"}`, string(raw))
}

func TestNewAlbumResponse_CountsPhotos(t *testing.T) {
	album := domain.AlbumWithPhotos{
		Album:  domain.Album{ID: 1, Name: "Trips"},
		Photos: []domain.Photo{{ID: 2, AlbumID: 1, Image: "a.jpg"}, {ID: 1, AlbumID: 1, Image: "b.jpg"}},
	}

	resp := NewAlbumResponse(&album)

	assert.Equal(t, 2, resp.PhotoCount)
	require.Len(t, resp.Photos, 2)
	assert.Equal(t, int64(1), resp.Photos[0].Album)

	empty := NewAlbumResponse(&domain.AlbumWithPhotos{Album: domain.Album{ID: 2}})
	assert.NotNil(t, empty.Photos)
	assert.Zero(t, empty.PhotoCount)
}

func TestNewProjectResponse_NonNilTechnologies(t *testing.T) {
	resp := NewProjectResponse(&domain.Project{ID: 1})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"technologies":[]`)
}

func TestNewHomeResponse(t *testing.T) {
	home := NewHomeResponse(nil, []domain.Project{{ID: 4, Title: "P"}}, &domain.FallbackQuote)

	assert.Empty(t, home.FeaturedBlogs)
	assert.NotNil(t, home.FeaturedBlogs)
	require.Len(t, home.FeaturedProjects, 1)
	assert.Equal(t, "Steve Jobs", home.Quote.Author)
}
