package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tamralc/publora/internal/models"
	"github.com/tamralc/publora/internal/repository"
	"github.com/tamralc/publora/internal/transfer"
)

// PostService is the intake surface for fully-formed post requests produced
// by the compose collaborator.
type PostService interface {
	Create(ctx context.Context, pc *transfer.PostCreation) (int64, error)
	List(ctx context.Context, sessionID string) ([]*models.ScheduledPost, error)
}

type postService struct {
	pr repository.ScheduledPostRepository
}

func NewPostService(pr repository.ScheduledPostRepository) PostService {
	return &postService{pr: pr}
}

func (s *postService) Create(ctx context.Context, pc *transfer.PostCreation) (int64, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return 0, err
	}
	if pc.SessionID == "" {
		err := errors.New("session id cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if len(pc.Images) == 0 {
		err := errors.New("no images provided for the post")
		slog.Info(err.Error())
		return 0, err
	}
	if len(pc.Platforms) == 0 {
		err := errors.New("no platforms selected")
		slog.Info(err.Error())
		return 0, err
	}
	for _, platform := range pc.Platforms {
		if platform != models.PlatformFacebook && platform != models.PlatformInstagram {
			err := fmt.Errorf("unsupported platform %q", platform)
			slog.Info(err.Error())
			return 0, err
		}
	}

	scheduledTime, err := time.Parse("2006-01-02T15:04", pc.ScheduledTime)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Error(err.Error())
		return 0, err
	}

	post := models.ScheduledPost{
		SessionID:        pc.SessionID,
		Images:           pc.Images,
		CaptionFacebook:  pc.CaptionFacebook,
		CaptionInstagram: pc.CaptionInstagram,
		Platforms:        pc.Platforms,
		ScheduledTime:    scheduledTime,
		Status:           models.PostStatusScheduled,
	}

	postID, err := s.pr.Create(ctx, &post)
	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	return postID, nil
}

func (s *postService) List(ctx context.Context, sessionID string) ([]*models.ScheduledPost, error) {
	if sessionID == "" {
		err := errors.New("session id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	posts, err := s.pr.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting posts")
	}

	return posts, nil
}
