package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tamralc/publora/internal/models"
)

type fakeInstagramAPI struct {
	mu              sync.Mutex
	childPayloads   []map[string]any
	carouselPayload map[string]any
	createCount     int
	statusCount     int
	publishCount    int
	publishedID     string
	statusSeq       []string
	createStatus    int
	createBody      string
}

func (a *fakeInstagramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/media"):
		if a.createStatus != 0 {
			w.WriteHeader(a.createStatus)
			fmt.Fprint(w, a.createBody)
			return
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		a.createCount++
		if payload["media_type"] == "CAROUSEL" {
			a.carouselPayload = payload
		} else {
			a.childPayloads = append(a.childPayloads, payload)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": fmt.Sprintf("container-%d", a.createCount)})

	case r.Method == "POST" && strings.HasSuffix(r.URL.Path, "/media_publish"):
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)

		a.publishCount++
		a.publishedID = payload["creation_id"]
		json.NewEncoder(w).Encode(map[string]string{"id": "ig-post-1"})

	case r.Method == "GET":
		code := "FINISHED"
		if a.statusCount < len(a.statusSeq) {
			code = a.statusSeq[a.statusCount]
		} else if len(a.statusSeq) > 0 {
			code = a.statusSeq[len(a.statusSeq)-1]
		}
		a.statusCount++
		json.NewEncoder(w).Encode(map[string]string{
			"id":          strings.TrimPrefix(r.URL.Path, "/"),
			"status":      "Status of " + code,
			"status_code": code,
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newInstagramService(t *testing.T, api *fakeInstagramAPI, maxAttempts int) *instagramService {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	return &instagramService{
		baseURL: server.URL,
		client:  server.Client(),
		poll:    RetryPolicy{MaxAttempts: maxAttempts, Interval: 0},
	}
}

func instagramAccount() *models.PlatformAccount {
	return &models.PlatformAccount{
		SessionID:       "sess-1",
		Platform:        models.PlatformInstagram,
		PageID:          "page-1",
		PageAccessToken: "token-1",
		InstagramID:     "ig-1",
	}
}

func TestSinglePostCreatesPollsAndPublishes(t *testing.T) {
	api := &fakeInstagramAPI{statusSeq: []string{"IN_PROGRESS", "FINISHED"}}
	svc := newInstagramService(t, api, 10)

	id, err := svc.PublishImages(context.Background(), instagramAccount(), []string{"https://media.example.com/a.jpg"}, "hello")
	require.NoError(t, err)
	require.Equal(t, "ig-post-1", id)

	require.Equal(t, 1, api.createCount)
	require.Equal(t, 2, api.statusCount)
	require.Equal(t, 1, api.publishCount)
	require.Equal(t, "container-1", api.publishedID)
	require.Equal(t, "hello", api.childPayloads[0]["caption"])
}

func TestCarouselPostPreservesChildOrder(t *testing.T) {
	api := &fakeInstagramAPI{}
	svc := newInstagramService(t, api, 10)

	images := []string{
		"https://media.example.com/1.jpg",
		"https://media.example.com/2.jpg",
		"https://media.example.com/3.jpg",
	}

	id, err := svc.PublishImages(context.Background(), instagramAccount(), images, "carousel caption")
	require.NoError(t, err)
	require.Equal(t, "ig-post-1", id)

	// 3 child creates + 1 carousel create, one poll, one publish.
	require.Equal(t, 4, api.createCount)
	require.Equal(t, 1, api.statusCount)
	require.Equal(t, 1, api.publishCount)

	require.Len(t, api.childPayloads, 3)
	for i, payload := range api.childPayloads {
		require.Equal(t, images[i], payload["image_url"])
		require.Equal(t, true, payload["is_carousel_item"])
		require.NotContains(t, payload, "caption")
	}

	children, ok := api.carouselPayload["children"].([]any)
	require.True(t, ok)
	require.Equal(t, []any{"container-1", "container-2", "container-3"}, children)
	require.Equal(t, "carousel caption", api.carouselPayload["caption"])
	require.Equal(t, "container-4", api.publishedID)
}

func TestCarouselPostRejectsOutOfRangeImageCounts(t *testing.T) {
	api := &fakeInstagramAPI{}
	svc := newInstagramService(t, api, 10)

	_, err := svc.CarouselPost(context.Background(), instagramAccount(), []string{"https://media.example.com/1.jpg"}, "")
	require.ErrorContains(t, err, "carousel requires between 2 and 10 images")

	eleven := make([]string, 11)
	for i := range eleven {
		eleven[i] = fmt.Sprintf("https://media.example.com/%d.jpg", i)
	}
	_, err = svc.CarouselPost(context.Background(), instagramAccount(), eleven, "")
	require.ErrorContains(t, err, "carousel requires between 2 and 10 images")

	// Rejected before any network call.
	require.Equal(t, 0, api.createCount)
	require.Equal(t, 0, api.statusCount)
	require.Equal(t, 0, api.publishCount)
}

func TestPublishImagesRejectsEmptyImageList(t *testing.T) {
	api := &fakeInstagramAPI{}
	svc := newInstagramService(t, api, 10)

	_, err := svc.PublishImages(context.Background(), instagramAccount(), nil, "")
	require.ErrorContains(t, err, "no images")
	require.Equal(t, 0, api.createCount)
}

func TestContainerErrorStopsPollingImmediately(t *testing.T) {
	api := &fakeInstagramAPI{statusSeq: []string{"ERROR"}}
	svc := newInstagramService(t, api, 10)

	_, err := svc.SinglePost(context.Background(), instagramAccount(), "https://media.example.com/a.jpg", "")
	require.Error(t, err)

	var containerErr *ContainerError
	require.ErrorAs(t, err, &containerErr)
	require.Equal(t, "ERROR", containerErr.StatusCode)
	require.False(t, errors.Is(err, ErrContainerTimeout))

	// One poll, then stop; the container is never published.
	require.Equal(t, 1, api.statusCount)
	require.Equal(t, 0, api.publishCount)
}

func TestContainerPollBudgetExhaustionIsTimeout(t *testing.T) {
	api := &fakeInstagramAPI{statusSeq: []string{"IN_PROGRESS"}}
	svc := newInstagramService(t, api, 4)

	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		_, err = svc.SinglePost(context.Background(), instagramAccount(), "https://media.example.com/a.jpg", "")
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poll loop did not terminate")
	}

	require.ErrorIs(t, err, ErrContainerTimeout)
	require.Equal(t, 4, api.statusCount)
	require.Equal(t, 0, api.publishCount)
}

func TestContainerCreateErrorSurfacesResponseBody(t *testing.T) {
	api := &fakeInstagramAPI{
		createStatus: http.StatusBadRequest,
		createBody:   `{"error":{"message":"Invalid image URL","code":100}}`,
	}
	svc := newInstagramService(t, api, 10)

	_, err := svc.SinglePost(context.Background(), instagramAccount(), "https://media.example.com/a.jpg", "")
	require.ErrorContains(t, err, "unexpected status code 400")
	require.ErrorContains(t, err, "Invalid image URL")
}

func TestPublishImagesRequiresLinkedBusinessAccount(t *testing.T) {
	api := &fakeInstagramAPI{}
	svc := newInstagramService(t, api, 10)

	account := instagramAccount()
	account.InstagramID = ""

	_, err := svc.PublishImages(context.Background(), account, []string{"https://media.example.com/a.jpg"}, "")
	require.ErrorContains(t, err, "no Instagram business account")
	require.Equal(t, 0, api.createCount)
}
