package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tamralc/publora/internal/models"
	"github.com/tamralc/publora/internal/transfer"
)

func validPostCreation() *transfer.PostCreation {
	return &transfer.PostCreation{
		SessionID:        "sess-1",
		Images:           []string{"https://cdn.example.com/a.jpg"},
		CaptionFacebook:  "fb caption",
		CaptionInstagram: "ig caption",
		Platforms:        []string{"facebook", "instagram"},
		ScheduledTime:    "2026-09-02T10:30",
	}
}

func TestCreatePost(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)

	id, err := svc.Create(context.Background(), validPostCreation())
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	require.Len(t, repo.created, 1)
	post := repo.created[0]
	require.Equal(t, models.PostStatusScheduled, post.Status)
	require.Equal(t, "sess-1", post.SessionID)
	require.Equal(t, 2026, post.ScheduledTime.Year())
}

func TestCreatePostValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(pc *transfer.PostCreation)
		wantErr string
	}{
		{"empty session", func(pc *transfer.PostCreation) { pc.SessionID = "" }, "session id"},
		{"no images", func(pc *transfer.PostCreation) { pc.Images = nil }, "no images"},
		{"no platforms", func(pc *transfer.PostCreation) { pc.Platforms = nil }, "no platforms"},
		{"unknown platform", func(pc *transfer.PostCreation) { pc.Platforms = []string{"myspace"} }, "unsupported platform"},
		{"bad time", func(pc *transfer.PostCreation) { pc.ScheduledTime = "tomorrow" }, "invalid scheduled time"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakePostRepo()
			svc := NewPostService(repo)

			pc := validPostCreation()
			tc.mutate(pc)

			_, err := svc.Create(context.Background(), pc)
			require.ErrorContains(t, err, tc.wantErr)
			require.Empty(t, repo.created)
		})
	}
}
