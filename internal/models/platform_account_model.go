package models

import "time"

// PlatformAccount is the credential record for one (session, platform) pair.
// The pipeline only ever reads these; they are written by the OAuth connect
// flow and removed by the disconnect endpoint.
type PlatformAccount struct {
	ID                int64     `db:"id" json:"id"`
	SessionID         string    `db:"session_id" json:"session_id"`
	Platform          string    `db:"platform" json:"platform"`
	PageID            string    `db:"page_id" json:"page_id"`
	PageAccessToken   string    `db:"page_access_token" json:"-"`
	InstagramID       string    `db:"instagram_id" json:"instagram_id"`
	InstagramUsername string    `db:"instagram_username" json:"instagram_username"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
