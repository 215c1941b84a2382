package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tamralc/publora/internal/models"
	"github.com/tamralc/publora/internal/repository"
)

// PublisherService drives one scheduled post to its terminal state: resolve
// credentials, materialize image URLs, publish to every target platform, and
// write the post's final status exactly once.
//
// Publishing is not transactional across platforms. A post that succeeds on
// one platform and fails on another is marked failed as a whole, but the
// successful platform's creative stays live and its external id is kept in
// the history table. The status label is all-or-nothing; the real-world
// effect is not.
type PublisherService interface {
	Process(ctx context.Context, post *models.ScheduledPost) string
}

type publisherService struct {
	pr    repository.ScheduledPostRepository
	ph    repository.PublishHistoryRepository
	creds CredentialService
	media MediaService
	fb    FacebookService
	ig    InstagramService
}

func NewPublisherService(
	pr repository.ScheduledPostRepository,
	ph repository.PublishHistoryRepository,
	creds CredentialService,
	media MediaService,
	fb FacebookService,
	ig InstagramService) PublisherService {
	return &publisherService{
		pr:    pr,
		ph:    ph,
		creds: creds,
		media: media,
		fb:    fb,
		ig:    ig,
	}
}

// Process publishes the post to each target platform concurrently and returns
// the final status it wrote.
func (s *publisherService) Process(ctx context.Context, post *models.ScheduledPost) string {
	results := make([]PublishResult, len(post.Platforms))

	var wg sync.WaitGroup
	for i, platform := range post.Platforms {
		wg.Add(1)
		go func(i int, platform string) {
			defer wg.Done()
			results[i] = s.publishTo(ctx, post, platform)
		}(i, platform)
	}
	wg.Wait()

	var reasons []string
	for _, res := range results {
		history := models.PublishHistory{
			SessionID:      post.SessionID,
			PostID:         post.ID,
			Platform:       res.Platform,
			ExternalPostID: res.PostID,
			ErrorMessage:   res.Reason,
		}
		if _, err := s.ph.Create(ctx, &history); err != nil {
			slog.Error("error saving publish history", "post_id", post.ID, "platform", res.Platform, "error", err)
		}

		if res.OK() {
			slog.Info("published", "post_id", post.ID, "platform", res.Platform, "external_post_id", res.PostID)
		} else {
			slog.Info("publish failed", "post_id", post.ID, "platform", res.Platform, "reason", res.Reason)
			reasons = append(reasons, fmt.Sprintf("%s: %s", res.Platform, res.Reason))
		}
	}

	if len(reasons) > 0 {
		if err := s.pr.SetFailed(ctx, post.ID, strings.Join(reasons, "; ")); err != nil {
			slog.Error("error updating post status", "post_id", post.ID, "error", err)
		}
		return models.PostStatusFailed
	}

	if err := s.pr.SetPublished(ctx, post.ID, time.Now()); err != nil {
		slog.Error("error updating post status", "post_id", post.ID, "error", err)
	}
	return models.PostStatusPublished
}

func (s *publisherService) publishTo(ctx context.Context, post *models.ScheduledPost, platform string) PublishResult {
	account, err := s.creds.Lookup(ctx, post.SessionID, platform)
	if err != nil {
		return resultErr(platform, err.Error())
	}
	if account == nil {
		return resultErr(platform, "Account not connected")
	}

	caption := post.CaptionFor(platform)

	imageURLs := make([]string, 0, len(post.Images))
	for _, ref := range post.Images {
		imageURL, err := s.media.EnsurePublicURL(ctx, post.SessionID, ref)
		if err != nil {
			return resultErr(platform, err.Error())
		}
		imageURLs = append(imageURLs, imageURL)
	}

	var externalID string
	switch platform {
	case models.PlatformFacebook:
		externalID, err = s.fb.PublishPhotos(ctx, account, imageURLs, caption)
	case models.PlatformInstagram:
		externalID, err = s.ig.PublishImages(ctx, account, imageURLs, caption)
	default:
		return resultErr(platform, "unsupported platform")
	}
	if err != nil {
		return resultErr(platform, err.Error())
	}

	return resultOk(platform, externalID)
}
