package tiktok

type queryRequest struct {
	Filters queryFilters `json:"filters"`
}

type queryFilters struct {
	VideoIDs []string `json:"video_ids"`
}

// queryResponse is the video query API envelope.
type queryResponse struct {
	Data struct {
		Videos []video `json:"videos"`
	} `json:"data"`
	Error apiError `json:"error"`
}

type video struct {
	ID           string `json:"id"`
	CreateTime   int64  `json:"create_time"` // unix seconds
	ViewCount    *int64 `json:"view_count"`
	LikeCount    *int64 `json:"like_count"`
	CommentCount *int64 `json:"comment_count"`
	ShareCount   *int64 `json:"share_count"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}
