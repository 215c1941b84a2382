package service

import (
	"context"
	"log/slog"

	config "github.com/tamralc/publora/configs"
	"github.com/tamralc/publora/internal/models"
	"github.com/tamralc/publora/internal/repository"
	"github.com/tamralc/publora/pkg/utils"
)

// CredentialService is the pipeline's read-only view of connected platform
// accounts. Lookup returns nil (without error) when no usable account exists
// for the pair, so callers can fail the platform before any network call.
type CredentialService interface {
	Lookup(ctx context.Context, sessionID, platform string) (*models.PlatformAccount, error)
}

type credentialService struct {
	cfg config.Config
	pa  repository.PlatformAccountRepository
}

func NewCredentialService(cfg config.Config, pa repository.PlatformAccountRepository) CredentialService {
	return &credentialService{cfg: cfg, pa: pa}
}

func (s *credentialService) Lookup(ctx context.Context, sessionID, platform string) (*models.PlatformAccount, error) {
	account, err := s.pa.GetBySession(ctx, sessionID, platform)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	// Instagram publishing goes through the linked business account; a page
	// without one cannot be posted to.
	if platform == models.PlatformInstagram && account.InstagramID == "" {
		slog.Info("platform account has no linked Instagram business account",
			"session_id", sessionID)
		return nil, nil
	}

	if account.PageID == "" || account.PageAccessToken == "" {
		slog.Info("platform account is structurally incomplete",
			"session_id", sessionID, "platform", platform)
		return nil, nil
	}

	token, err := utils.Decrypt(account.PageAccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}
	account.PageAccessToken = token

	return account, nil
}
