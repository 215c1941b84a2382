package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/tamralc/publora/internal/models"
)

type ScheduledPostRepository interface {
	Create(ctx context.Context, post *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	ListBySessionID(ctx context.Context, sessionID string) ([]*models.ScheduledPost, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledPost, error)
	SetPublished(ctx context.Context, postID int64, postedTime time.Time) error
	SetFailed(ctx context.Context, postID int64, errorMessage string) error
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

func (r *scheduledPostRepository) Create(ctx context.Context, post *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (session_id, images, caption_facebook, caption_instagram, platforms, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.SessionID,
		pq.Array(post.Images),
		post.CaptionFacebook,
		post.CaptionInstagram,
		pq.Array(post.Platforms),
		post.ScheduledTime,
		models.PostStatusScheduled,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `
		SELECT id, session_id, images, caption_facebook, caption_instagram, platforms, scheduled_time, status, error_message, posted_time, created_at, updated_at
		FROM scheduled_posts
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *scheduledPostRepository) ListBySessionID(ctx context.Context, sessionID string) ([]*models.ScheduledPost, error) {
	query := `
		SELECT id, session_id, images, caption_facebook, caption_instagram, platforms, scheduled_time, status, error_message, posted_time, created_at, updated_at
		FROM scheduled_posts
		WHERE session_id = $1
		ORDER BY scheduled_time DESC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

// ListDue returns posts still in the scheduled state whose scheduled time has
// passed, capped at limit so a single tick stays bounded.
func (r *scheduledPostRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledPost, error) {
	query := `
		SELECT id, session_id, images, caption_facebook, caption_instagram, platforms, scheduled_time, status, error_message, posted_time, created_at, updated_at
		FROM scheduled_posts
		WHERE status = $1 AND scheduled_time <= $2
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, models.PostStatusScheduled, now, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (r *scheduledPostRepository) SetPublished(ctx context.Context, postID int64, postedTime time.Time) error {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			error_message = '',
			posted_time = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusPublished, postedTime, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) SetFailed(ctx context.Context, postID int64, errorMessage string) error {
	query := `
		UPDATE scheduled_posts
		SET status = $1,
			error_message = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.PostStatusFailed, errorMessage, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.ScheduledPost, error) {
	var post models.ScheduledPost
	err := row.Scan(
		&post.ID,
		&post.SessionID,
		pq.Array(&post.Images),
		&post.CaptionFacebook,
		&post.CaptionInstagram,
		pq.Array(&post.Platforms),
		&post.ScheduledTime,
		&post.Status,
		&post.ErrorMessage,
		&post.PostedTime,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func collectPosts(rows *sql.Rows) ([]*models.ScheduledPost, error) {
	var posts []*models.ScheduledPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return posts, nil
}
