package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tamralc/publora/internal/models"
)

type fakeFacebookAPI struct {
	mu            sync.Mutex
	photoPayloads []map[string]any
	feedPayload   map[string]any
	photoCount    int
	feedCount     int
	photoStatus   int
	photoBody     string
}

func (a *fakeFacebookAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/photos"):
		if a.photoStatus != 0 {
			w.WriteHeader(a.photoStatus)
			fmt.Fprint(w, a.photoBody)
			return
		}

		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)

		a.photoCount++
		a.photoPayloads = append(a.photoPayloads, payload)
		json.NewEncoder(w).Encode(map[string]string{
			"id":      fmt.Sprintf("photo-%d", a.photoCount),
			"post_id": fmt.Sprintf("page-1_%d", a.photoCount),
		})

	case r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/feed"):
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)

		a.feedCount++
		a.feedPayload = payload
		json.NewEncoder(w).Encode(map[string]string{"id": "page-1_feed-1"})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFacebookService(t *testing.T, api *fakeFacebookAPI) *facebookService {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	return &facebookService{baseURL: server.URL, client: server.Client()}
}

func facebookAccount() *models.PlatformAccount {
	return &models.PlatformAccount{
		SessionID:       "sess-1",
		Platform:        models.PlatformFacebook,
		PageID:          "page-1",
		PageAccessToken: "token-1",
	}
}

func TestSinglePhotoPost(t *testing.T) {
	api := &fakeFacebookAPI{}
	svc := newFacebookService(t, api)

	id, err := svc.PublishPhotos(context.Background(), facebookAccount(), []string{"https://media.example.com/a.jpg"}, "hello")
	require.NoError(t, err)
	require.Equal(t, "page-1_1", id)

	require.Equal(t, 1, api.photoCount)
	require.Equal(t, 0, api.feedCount)
	require.Equal(t, "https://media.example.com/a.jpg", api.photoPayloads[0]["url"])
	require.Equal(t, "hello", api.photoPayloads[0]["caption"])
	require.Equal(t, "token-1", api.photoPayloads[0]["access_token"])
}

func TestMultiPhotoPostAttachesAllImages(t *testing.T) {
	api := &fakeFacebookAPI{}
	svc := newFacebookService(t, api)

	images := []string{
		"https://media.example.com/1.jpg",
		"https://media.example.com/2.jpg",
		"https://media.example.com/3.jpg",
	}

	id, err := svc.PublishPhotos(context.Background(), facebookAccount(), images, "album caption")
	require.NoError(t, err)
	require.Equal(t, "page-1_feed-1", id)

	require.Equal(t, 3, api.photoCount)
	require.Equal(t, 1, api.feedCount)
	for i, payload := range api.photoPayloads {
		require.Equal(t, images[i], payload["url"])
		require.Equal(t, false, payload["published"])
	}

	require.Equal(t, "album caption", api.feedPayload["message"])
	attached, ok := api.feedPayload["attached_media"].([]any)
	require.True(t, ok)
	require.Len(t, attached, 3)
	for i, item := range attached {
		media, ok := item.(map[string]any)
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("photo-%d", i+1), media["media_fbid"])
	}
}

func TestPublishPhotosRejectsEmptyImageList(t *testing.T) {
	api := &fakeFacebookAPI{}
	svc := newFacebookService(t, api)

	_, err := svc.PublishPhotos(context.Background(), facebookAccount(), nil, "")
	require.ErrorContains(t, err, "no images")
	require.Equal(t, 0, api.photoCount)
	require.Equal(t, 0, api.feedCount)
}

func TestPhotoPostErrorSurfacesResponseBody(t *testing.T) {
	api := &fakeFacebookAPI{
		photoStatus: http.StatusForbidden,
		photoBody:   `{"error":{"message":"Permissions error","code":200}}`,
	}
	svc := newFacebookService(t, api)

	_, err := svc.PublishPhotos(context.Background(), facebookAccount(), []string{"https://media.example.com/a.jpg"}, "")
	require.ErrorContains(t, err, "unexpected status code 403")
	require.ErrorContains(t, err, "Permissions error")
}
