package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
)

func TestBlogHandler_Lifecycle(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	w := api.do(http.MethodPost, "/api/v1/blogs", token, dto.BlogRequest{
		Title:   "Hello",
		Excerpt: "First post",
		Content: "Body",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.BlogResponse](t, w)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Hello", created.Title)
	assert.False(t, created.CreatedAt.IsZero())

	path := fmt.Sprintf("/api/v1/blogs/%d", created.ID)

	w = api.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Body", decode[dto.BlogResponse](t, w).Content)

	w = api.do(http.MethodPatch, path, token, `{"title":"Renamed","is_featured":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decode[dto.BlogResponse](t, w)
	assert.Equal(t, "Renamed", patched.Title)
	assert.Equal(t, "First post", patched.Excerpt)
	assert.True(t, patched.IsFeatured)

	w = api.do(http.MethodPut, path, token, dto.BlogRequest{Title: "Replaced", Excerpt: "E", Content: "C"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	replaced := decode[dto.BlogResponse](t, w)
	assert.Equal(t, "Replaced", replaced.Title)
	assert.False(t, replaced.IsFeatured)

	w = api.do(http.MethodGet, "/api/v1/blogs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.BlogResponse](t, w), 1)

	w = api.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	requireError(t, api.do(http.MethodGet, path, "", nil), http.StatusNotFound, dto.ErrorCodeNotFound)
	requireError(t, api.do(http.MethodDelete, path, token, nil), http.StatusNotFound, dto.ErrorCodeNotFound)
}

func TestBlogHandler_WritesRequireToken(t *testing.T) {
	api := newTestAPI(t, apiOptions{})

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "unknown token", token: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"},
		{name: "garbage token", token: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/api/v1/blogs", tt.token, dto.BlogRequest{Title: "T", Excerpt: "E", Content: "C"})

			resp := requireError(t, w, http.StatusUnauthorized, dto.ErrorCodeUnauthorized)
			assert.Equal(t, "invalid or missing credentials", resp.Error.Message)
		})
	}
}

func TestBlogHandler_BadRequests(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	requireError(t, api.do(http.MethodGet, "/api/v1/blogs/abc", "", nil), http.StatusBadRequest, dto.ErrorCodeBadRequest)
	requireError(t, api.do(http.MethodGet, "/api/v1/blogs/0", "", nil), http.StatusBadRequest, dto.ErrorCodeBadRequest)
	requireError(t, api.do(http.MethodPost, "/api/v1/blogs", token, `{"title":`), http.StatusBadRequest, dto.ErrorCodeBadRequest)

	resp := requireError(t, api.do(http.MethodPost, "/api/v1/blogs", token, `{"title":"  ","excerpt":"E"}`),
		http.StatusBadRequest, dto.ErrorCodeValidation)
	assert.Contains(t, resp.Error.Details, "title")
	assert.Contains(t, resp.Error.Details, "content")
}

func TestBlogHandler_Featured(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	for i := range 5 {
		w := api.do(http.MethodPost, "/api/v1/blogs", token, dto.BlogRequest{
			Title:      fmt.Sprintf("Post %d", i),
			Excerpt:    "E",
			Content:    "C",
			IsFeatured: i != 2,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := api.do(http.MethodGet, "/api/v1/blogs/featured", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	featured := decode[[]dto.BlogResponse](t, w)
	assert.Len(t, featured, 3)

	for _, b := range featured {
		assert.True(t, b.IsFeatured)
	}
}

func TestProjectHandler_CreateAndFeatured(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	w := api.do(http.MethodPost, "/api/v1/projects", token, dto.ProjectRequest{
		Title:       "CLI",
		Description: "A tool",
		GithubURL:   "https://github.com/example/cli",
		IsFeatured:  true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/projects/featured", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	featured := decode[[]dto.ProjectResponse](t, w)
	require.Len(t, featured, 1)
	assert.Equal(t, "https://github.com/example/cli", featured[0].GithubURL)

	resp := requireError(t, api.do(http.MethodPost, "/api/v1/projects", token, `{"title":"T","description":"D","live_url":"not a url"}`),
		http.StatusBadRequest, dto.ErrorCodeValidation)
	assert.Contains(t, resp.Error.Details, "live_url")
}

func TestCertificateHandler_FilterByType(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	for _, kind := range []string{"badge", "certificate", "badge"} {
		w := api.do(http.MethodPost, "/api/v1/certificates", token, dto.CertificateRequest{
			Title:     "Cert " + kind,
			Issuer:    "Issuer",
			CertType:  kind,
			IssueDate: "2024-06-01",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "2024-06-01", decode[dto.CertificateResponse](t, w).IssueDate)
	}

	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 3},
		{query: "?type=badge", want: 2},
		{query: "?type=certificate", want: 1},
	}

	for _, tt := range tests {
		t.Run("list"+tt.query, func(t *testing.T) {
			w := api.do(http.MethodGet, "/api/v1/certificates"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decode[[]dto.CertificateResponse](t, w), tt.want)
		})
	}

	resp := requireError(t, api.do(http.MethodGet, "/api/v1/certificates?type=trophy", "", nil),
		http.StatusBadRequest, dto.ErrorCodeValidation)
	assert.Contains(t, resp.Error.Details, "type")
}

func TestCertificateHandler_PatchIssueDate(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	w := api.do(http.MethodPost, "/api/v1/certificates", token, dto.CertificateRequest{
		Title: "Go", Issuer: "Issuer", CertType: "certificate", IssueDate: "2023-01-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[dto.CertificateResponse](t, w).ID

	w = api.do(http.MethodPatch, fmt.Sprintf("/api/v1/certificates/%d", id), token, `{"issue_date":"2024-02-29"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[dto.CertificateResponse](t, w)
	assert.Equal(t, "2024-02-29", got.IssueDate)
	assert.Equal(t, "Go", got.Title)
}
