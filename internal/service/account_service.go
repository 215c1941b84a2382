package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tamralc/publora/internal/models"
	"github.com/tamralc/publora/internal/repository"
)

// AccountService is the explicit disconnect collaborator. The publishing
// pipeline itself never mutates platform accounts.
type AccountService interface {
	List(ctx context.Context, sessionID string) ([]*models.PlatformAccount, error)
	Disconnect(ctx context.Context, sessionID, platform string) error
}

type accountService struct {
	pa repository.PlatformAccountRepository
}

func NewAccountService(pa repository.PlatformAccountRepository) AccountService {
	return &accountService{pa: pa}
}

func (s *accountService) List(ctx context.Context, sessionID string) ([]*models.PlatformAccount, error) {
	if sessionID == "" {
		err := errors.New("session id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	accounts, err := s.pa.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting platform accounts")
	}

	return accounts, nil
}

func (s *accountService) Disconnect(ctx context.Context, sessionID, platform string) error {
	if sessionID == "" {
		err := errors.New("session id is not valid")
		slog.Info(err.Error())
		return err
	}

	if platform != models.PlatformFacebook && platform != models.PlatformInstagram {
		err := errors.New("platform is not valid")
		slog.Info(err.Error())
		return err
	}

	account, err := s.pa.GetBySession(ctx, sessionID, platform)
	if err != nil {
		return err
	}
	if account == nil {
		err := errors.New("platform account doesn't exist")
		slog.Info(err.Error())
		return err
	}

	if err := s.pa.Remove(ctx, sessionID, platform); err != nil {
		return fmt.Errorf("error removing platform account")
	}

	return nil
}
