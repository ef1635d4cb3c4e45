package youtube

// videosResponse is the subset of the videos.list response the adapter reads.
type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID         string     `json:"id"`
	Statistics statistics `json:"statistics"`
	Snippet    snippet    `json:"snippet"`
}

// Counts are transmitted as decimal strings and may be omitted, e.g. likeCount
// when the owner hides likes.
type statistics struct {
	ViewCount     *string `json:"viewCount"`
	LikeCount     *string `json:"likeCount"`
	CommentCount  *string `json:"commentCount"`
	FavoriteCount *string `json:"favoriteCount"`
}

type snippet struct {
	PublishedAt  string `json:"publishedAt"`
	ChannelID    string `json:"channelId"`
	ChannelTitle string `json:"channelTitle"`
	Title        string `json:"title"`
}
