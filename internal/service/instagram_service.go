package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	config "github.com/tamralc/publora/configs"
	"github.com/tamralc/publora/internal/models"
	"github.com/tamralc/publora/internal/transfer"
)

const (
	carouselMinImages = 2
	carouselMaxImages = 10
)

// ErrContainerTimeout marks a container that never reached FINISHED within the
// poll budget. Distinct from a container the API reports as failed.
var ErrContainerTimeout = errors.New("media container not ready before poll budget exhausted")

// ContainerError is an API-reported terminal container state. The container is
// never published once this is returned.
type ContainerError struct {
	ContainerID string
	StatusCode  string
	Status      string
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("media container %s reported %s: %s", e.ContainerID, e.StatusCode, e.Status)
}

// RetryPolicy bounds the container status poll loop. Tests inject a zero
// interval so the loop runs without wall-clock delays.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// InstagramService publishes images through the Graph media-container
// protocol: create a container, wait for the platform to finish ingesting it,
// then publish it. Instagram never accepts the image synchronously.
type InstagramService interface {
	PublishImages(ctx context.Context, account *models.PlatformAccount, imageURLs []string, caption string) (string, error)
	SinglePost(ctx context.Context, account *models.PlatformAccount, imageURL, caption string) (string, error)
	CarouselPost(ctx context.Context, account *models.PlatformAccount, imageURLs []string, caption string) (string, error)
}

type instagramService struct {
	baseURL string
	client  *http.Client
	poll    RetryPolicy
}

func NewInstagramService(cfg config.Config) InstagramService {
	return &instagramService{
		baseURL: cfg.GraphAPIBaseURL,
		client:  http.DefaultClient,
		poll: RetryPolicy{
			MaxAttempts: cfg.PollMaxAttempts,
			Interval:    cfg.PollInterval,
		},
	}
}

func (s *instagramService) PublishImages(ctx context.Context, account *models.PlatformAccount, imageURLs []string, caption string) (string, error) {
	if account.InstagramID == "" {
		return "", errors.New("no Instagram business account linked to this page")
	}

	switch len(imageURLs) {
	case 0:
		return "", errors.New("no images to publish")
	case 1:
		return s.SinglePost(ctx, account, imageURLs[0], caption)
	default:
		return s.CarouselPost(ctx, account, imageURLs, caption)
	}
}

func (s *instagramService) SinglePost(ctx context.Context, account *models.PlatformAccount, imageURL, caption string) (string, error) {
	payload := map[string]interface{}{
		"image_url":    imageURL,
		"caption":      caption,
		"access_token": account.PageAccessToken,
	}

	containerID, err := s.createContainer(ctx, account, payload)
	if err != nil {
		return "", err
	}

	if err := s.waitForContainer(ctx, account, containerID); err != nil {
		return "", err
	}

	return s.publishContainer(ctx, account, containerID)
}

// CarouselPost creates one child container per image, in input order, then a
// parent CAROUSEL container referencing the children. Only the parent is
// polled; child ingestion is reflected in the parent's status.
func (s *instagramService) CarouselPost(ctx context.Context, account *models.PlatformAccount, imageURLs []string, caption string) (string, error) {
	if len(imageURLs) < carouselMinImages || len(imageURLs) > carouselMaxImages {
		return "", fmt.Errorf("carousel requires between %d and %d images, got %d", carouselMinImages, carouselMaxImages, len(imageURLs))
	}

	childIDs := make([]string, 0, len(imageURLs))
	for _, imageURL := range imageURLs {
		payload := map[string]interface{}{
			"image_url":        imageURL,
			"is_carousel_item": true,
			"access_token":     account.PageAccessToken,
		}

		childID, err := s.createContainer(ctx, account, payload)
		if err != nil {
			return "", err
		}
		childIDs = append(childIDs, childID)
	}

	payload := map[string]interface{}{
		"media_type":   "CAROUSEL",
		"caption":      caption,
		"children":     childIDs,
		"access_token": account.PageAccessToken,
	}

	carouselID, err := s.createContainer(ctx, account, payload)
	if err != nil {
		return "", err
	}

	if err := s.waitForContainer(ctx, account, carouselID); err != nil {
		return "", err
	}

	return s.publishContainer(ctx, account, carouselID)
}

func (s *instagramService) createContainer(ctx context.Context, account *models.PlatformAccount, payload map[string]interface{}) (string, error) {
	url := fmt.Sprintf("%s/%s/media", s.baseURL, account.InstagramID)

	var result transfer.GraphIDResponse
	if err := postGraph(ctx, s.client, url, payload, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", errors.New("no container ID returned from Instagram")
	}

	return result.ID, nil
}

// waitForContainer polls the container status until FINISHED, a terminal API
// state, or the attempt ceiling. The first check is immediate; subsequent
// checks wait one poll interval and honor context cancellation.
func (s *instagramService) waitForContainer(ctx context.Context, account *models.PlatformAccount, containerID string) error {
	statusURL := fmt.Sprintf("%s/%s?fields=status,status_code&access_token=%s",
		s.baseURL, containerID, url.QueryEscape(account.PageAccessToken))

	for attempt := 0; attempt < s.poll.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.poll.Interval):
			}
		}

		var status transfer.ContainerStatusResponse
		if err := getGraph(ctx, s.client, statusURL, &status); err != nil {
			return err
		}

		switch status.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR", "EXPIRED":
			return &ContainerError{
				ContainerID: containerID,
				StatusCode:  status.StatusCode,
				Status:      status.Status,
			}
		}
	}

	return fmt.Errorf("container %s: %w", containerID, ErrContainerTimeout)
}

func (s *instagramService) publishContainer(ctx context.Context, account *models.PlatformAccount, containerID string) (string, error) {
	url := fmt.Sprintf("%s/%s/media_publish", s.baseURL, account.InstagramID)

	payload := map[string]string{
		"creation_id":  containerID,
		"access_token": account.PageAccessToken,
	}

	var result transfer.GraphIDResponse
	if err := postGraph(ctx, s.client, url, payload, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", errors.New("no media ID returned from Instagram")
	}

	return result.ID, nil
}
