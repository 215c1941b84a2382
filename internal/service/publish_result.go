package service

// PublishResult is the outcome of one (post, platform) publish attempt.
// Exactly one of PostID or Reason is set.
type PublishResult struct {
	Platform string
	PostID   string
	Reason   string
}

func resultOk(platform, postID string) PublishResult {
	return PublishResult{Platform: platform, PostID: postID}
}

func resultErr(platform, reason string) PublishResult {
	return PublishResult{Platform: platform, Reason: reason}
}

func (r PublishResult) OK() bool {
	return r.Reason == ""
}
