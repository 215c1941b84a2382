package transfer

// PostCreation is the fully-formed post request produced by the compose
// collaborator. Images are ordered; each entry is an https URL or a data URI.
type PostCreation struct {
	SessionID        string   `json:"session_id"`
	Images           []string `json:"images"`
	CaptionFacebook  string   `json:"caption_facebook"`
	CaptionInstagram string   `json:"caption_instagram"`
	Platforms        []string `json:"platforms"`
	ScheduledTime    string   `json:"scheduled_time"`
}
