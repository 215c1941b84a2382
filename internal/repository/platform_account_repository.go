package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/tamralc/publora/internal/models"
)

type PlatformAccountRepository interface {
	Create(ctx context.Context, pa *models.PlatformAccount) (int64, error)
	GetBySession(ctx context.Context, sessionID, platform string) (*models.PlatformAccount, error)
	ListBySession(ctx context.Context, sessionID string) ([]*models.PlatformAccount, error)
	Remove(ctx context.Context, sessionID, platform string) error
}

type platformAccountRepository struct {
	db *sql.DB
}

func NewPlatformAccountRepository(db *sql.DB) PlatformAccountRepository {
	return &platformAccountRepository{db: db}
}

func (r *platformAccountRepository) Create(ctx context.Context, pa *models.PlatformAccount) (int64, error) {
	query := `
		INSERT INTO platform_accounts (session_id, platform, page_id, page_access_token, instagram_id, instagram_username)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, platform) DO UPDATE
		SET page_id = EXCLUDED.page_id,
			page_access_token = EXCLUDED.page_access_token,
			instagram_id = EXCLUDED.instagram_id,
			instagram_username = EXCLUDED.instagram_username,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		pa.SessionID,
		pa.Platform,
		pa.PageID,
		pa.PageAccessToken,
		pa.InstagramID,
		pa.InstagramUsername,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *platformAccountRepository) GetBySession(ctx context.Context, sessionID, platform string) (*models.PlatformAccount, error) {
	query := `
		SELECT id, session_id, platform, page_id, page_access_token, instagram_id, instagram_username, created_at, updated_at
		FROM platform_accounts
		WHERE session_id = $1 AND platform = $2
	`
	row := r.db.QueryRowContext(ctx, query, sessionID, platform)

	var pa models.PlatformAccount
	err := row.Scan(&pa.ID, &pa.SessionID, &pa.Platform, &pa.PageID, &pa.PageAccessToken,
		&pa.InstagramID, &pa.InstagramUsername, &pa.CreatedAt, &pa.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &pa, nil
}

func (r *platformAccountRepository) ListBySession(ctx context.Context, sessionID string) ([]*models.PlatformAccount, error) {
	query := `
		SELECT id, session_id, platform, page_id, instagram_id, instagram_username, created_at, updated_at
		FROM platform_accounts
		WHERE session_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.PlatformAccount
	for rows.Next() {
		var pa models.PlatformAccount
		err := rows.Scan(&pa.ID, &pa.SessionID, &pa.Platform, &pa.PageID,
			&pa.InstagramID, &pa.InstagramUsername, &pa.CreatedAt, &pa.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &pa)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return accounts, nil
}

func (r *platformAccountRepository) Remove(ctx context.Context, sessionID, platform string) error {
	query := `DELETE FROM platform_accounts WHERE session_id = $1 AND platform = $2`
	_, err := r.db.ExecContext(ctx, query, sessionID, platform)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
