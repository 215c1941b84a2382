package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	config "github.com/tamralc/publora/configs"
	"github.com/tamralc/publora/internal/models"
	"github.com/tamralc/publora/internal/transfer"
)

// FacebookService posts photos to a Facebook page. The page accepts the image
// URL directly, so a single Graph call is enough for one image; multi-image
// posts upload each photo unpublished and attach them to one feed story.
type FacebookService interface {
	PublishPhotos(ctx context.Context, account *models.PlatformAccount, imageURLs []string, caption string) (string, error)
	SinglePhotoPost(ctx context.Context, account *models.PlatformAccount, imageURL, caption string) (string, error)
	MultiPhotoPost(ctx context.Context, account *models.PlatformAccount, imageURLs []string, caption string) (string, error)
}

type facebookService struct {
	baseURL string
	client  *http.Client
}

func NewFacebookService(cfg config.Config) FacebookService {
	return &facebookService{
		baseURL: cfg.GraphAPIBaseURL,
		client:  http.DefaultClient,
	}
}

func (s *facebookService) PublishPhotos(ctx context.Context, account *models.PlatformAccount, imageURLs []string, caption string) (string, error) {
	switch len(imageURLs) {
	case 0:
		return "", errors.New("no images to publish")
	case 1:
		return s.SinglePhotoPost(ctx, account, imageURLs[0], caption)
	default:
		return s.MultiPhotoPost(ctx, account, imageURLs, caption)
	}
}

func (s *facebookService) SinglePhotoPost(ctx context.Context, account *models.PlatformAccount, imageURL, caption string) (string, error) {
	url := fmt.Sprintf("%s/%s/photos", s.baseURL, account.PageID)

	payload := map[string]interface{}{
		"url":          imageURL,
		"caption":      caption,
		"access_token": account.PageAccessToken,
	}

	var result transfer.GraphPhotoResponse
	if err := postGraph(ctx, s.client, url, payload, &result); err != nil {
		return "", err
	}

	if result.PostID != "" {
		return result.PostID, nil
	}
	if result.ID == "" {
		return "", errors.New("no post ID returned from Facebook")
	}
	return result.ID, nil
}

// MultiPhotoPost uploads every photo with published=false, then issues one
// feed post referencing all of them so they appear as a single story.
func (s *facebookService) MultiPhotoPost(ctx context.Context, account *models.PlatformAccount, imageURLs []string, caption string) (string, error) {
	if len(imageURLs) == 0 {
		return "", errors.New("no images to publish")
	}

	attachedMedia := make([]map[string]string, 0, len(imageURLs))
	for _, imageURL := range imageURLs {
		photoURL := fmt.Sprintf("%s/%s/photos", s.baseURL, account.PageID)
		payload := map[string]interface{}{
			"url":          imageURL,
			"published":    false,
			"access_token": account.PageAccessToken,
		}

		var result transfer.GraphIDResponse
		if err := postGraph(ctx, s.client, photoURL, payload, &result); err != nil {
			return "", err
		}
		if result.ID == "" {
			return "", errors.New("no photo ID returned from Facebook")
		}

		attachedMedia = append(attachedMedia, map[string]string{"media_fbid": result.ID})
	}

	feedURL := fmt.Sprintf("%s/%s/feed", s.baseURL, account.PageID)
	payload := map[string]interface{}{
		"message":        caption,
		"attached_media": attachedMedia,
		"access_token":   account.PageAccessToken,
	}

	var result transfer.GraphIDResponse
	if err := postGraph(ctx, s.client, feedURL, payload, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", errors.New("no post ID returned from Facebook")
	}

	return result.ID, nil
}
