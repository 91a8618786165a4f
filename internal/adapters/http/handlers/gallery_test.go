package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/http/dto"
)

func createAlbum(t *testing.T, api *testAPI, token, name string) dto.AlbumResponse {
	t.Helper()

	w := api.do(http.MethodPost, "/api/v1/albums", token, dto.AlbumRequest{Name: name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode[dto.AlbumResponse](t, w)
}

func createPhoto(t *testing.T, api *testAPI, token string, album int64, image string) dto.PhotoResponse {
	t.Helper()

	w := api.do(http.MethodPost, "/api/v1/photos", token, dto.PhotoRequest{Album: album, Image: image})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode[dto.PhotoResponse](t, w)
}

func TestAlbumHandler_IncludesPhotos(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	album := createAlbum(t, api, token, "Travel")
	assert.Empty(t, album.Photos)
	assert.Zero(t, album.PhotoCount)

	createPhoto(t, api, token, album.ID, "/media/a.jpg")
	createPhoto(t, api, token, album.ID, "/media/b.jpg")

	w := api.do(http.MethodGet, fmt.Sprintf("/api/v1/albums/%d", album.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[dto.AlbumResponse](t, w)
	assert.Equal(t, 2, got.PhotoCount)
	assert.Len(t, got.Photos, 2)

	w = api.do(http.MethodGet, "/api/v1/albums", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	albums := decode[[]dto.AlbumResponse](t, w)
	require.Len(t, albums, 1)
	assert.Equal(t, 2, albums[0].PhotoCount)
}

func TestAlbumHandler_UpdateAndDelete(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	album := createAlbum(t, api, token, "Draft")
	photo := createPhoto(t, api, token, album.ID, "/media/a.jpg")
	path := fmt.Sprintf("/api/v1/albums/%d", album.ID)

	w := api.do(http.MethodPatch, path, token, `{"description":"Summer 2024"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decode[dto.AlbumResponse](t, w)
	assert.Equal(t, "Draft", patched.Name)
	assert.Equal(t, "Summer 2024", patched.Description)
	assert.Equal(t, 1, patched.PhotoCount)

	w = api.do(http.MethodPut, path, token, dto.AlbumRequest{Name: "Final"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.AlbumResponse](t, w).Description)

	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, path, token, nil).Code)

	requireError(t, api.do(http.MethodGet, path, "", nil), http.StatusNotFound, dto.ErrorCodeNotFound)
	requireError(t, api.do(http.MethodGet, fmt.Sprintf("/api/v1/photos/%d", photo.ID), "", nil),
		http.StatusNotFound, dto.ErrorCodeNotFound)
}

func TestPhotoHandler_FilterByAlbum(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	first := createAlbum(t, api, token, "First")
	second := createAlbum(t, api, token, "Second")

	createPhoto(t, api, token, first.ID, "/media/1.jpg")
	createPhoto(t, api, token, first.ID, "/media/2.jpg")
	createPhoto(t, api, token, second.ID, "/media/3.jpg")

	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: 3},
		{query: fmt.Sprintf("?album=%d", first.ID), want: 2},
		{query: fmt.Sprintf("?album=%d", second.ID), want: 1},
	}

	for _, tt := range tests {
		t.Run("list"+tt.query, func(t *testing.T) {
			w := api.do(http.MethodGet, "/api/v1/photos"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decode[[]dto.PhotoResponse](t, w), tt.want)
		})
	}

	requireError(t, api.do(http.MethodGet, "/api/v1/photos?album=-1", "", nil), http.StatusBadRequest, dto.ErrorCodeValidation)
}

func TestPhotoHandler_RequiresExistingAlbum(t *testing.T) {
	api := newTestAPI(t, apiOptions{})
	token := api.login(t)

	resp := requireError(t, api.do(http.MethodPost, "/api/v1/photos", token, dto.PhotoRequest{Album: 999, Image: "/x.jpg"}),
		http.StatusBadRequest, dto.ErrorCodeValidation)
	assert.Contains(t, resp.Error.Details, "album")

	album := createAlbum(t, api, token, "Home")
	photo := createPhoto(t, api, token, album.ID, "/media/a.jpg")

	requireError(t, api.do(http.MethodPatch, fmt.Sprintf("/api/v1/photos/%d", photo.ID), token, `{"album":999}`),
		http.StatusBadRequest, dto.ErrorCodeValidation)

	w := api.do(http.MethodPatch, fmt.Sprintf("/api/v1/photos/%d", photo.ID), token, `{"caption":"Sunset"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Sunset", decode[dto.PhotoResponse](t, w).Caption)
}
