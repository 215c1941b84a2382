package models

import "time"

type ScheduledPost struct {
	ID               int64      `db:"id" json:"id"`
	SessionID        string     `db:"session_id" json:"session_id"`
	Images           []string   `db:"images" json:"images"`
	CaptionFacebook  string     `db:"caption_facebook" json:"caption_facebook"`
	CaptionInstagram string     `db:"caption_instagram" json:"caption_instagram"`
	Platforms        []string   `db:"platforms" json:"platforms"`
	ScheduledTime    time.Time  `db:"scheduled_time" json:"scheduled_time"`
	Status           string     `db:"status" json:"status"` // scheduled, published, failed
	ErrorMessage     string     `db:"error_message" json:"error_message"`
	PostedTime       *time.Time `db:"posted_time" json:"posted_time"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)

// CaptionFor returns the caption for a platform, falling back to the other
// platform's caption when its own is empty.
func (p *ScheduledPost) CaptionFor(platform string) string {
	switch platform {
	case PlatformFacebook:
		if p.CaptionFacebook != "" {
			return p.CaptionFacebook
		}
		return p.CaptionInstagram
	case PlatformInstagram:
		if p.CaptionInstagram != "" {
			return p.CaptionInstagram
		}
		return p.CaptionFacebook
	default:
		return ""
	}
}
