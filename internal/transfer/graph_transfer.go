package transfer

// GraphIDResponse is the common shape of a successful Graph API create call.
type GraphIDResponse struct {
	ID string `json:"id"`
}

// GraphPhotoResponse is returned by a page photo post; PostID is the id of the
// resulting feed story when the photo is published directly.
type GraphPhotoResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

// ContainerStatusResponse is the polled state of a media container.
// StatusCode is one of EXPIRED, ERROR, FINISHED, IN_PROGRESS, PUBLISHED.
type ContainerStatusResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	StatusCode string `json:"status_code"`
}

type GraphErrorResponse struct {
	Error struct {
		Message        string `json:"message"`
		Type           string `json:"type"`
		Code           int    `json:"code"`
		ErrorSubcode   int    `json:"error_subcode"`
		IsTransient    bool   `json:"is_transient"`
		ErrorUserTitle string `json:"error_user_title"`
		ErrorUserMsg   string `json:"error_user_msg"`
		FbtraceID      string `json:"fbtrace_id"`
	} `json:"error"`
}
