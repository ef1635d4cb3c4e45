package domain

// DateLayout is the calendar-day format used by series points and aggregates.
const DateLayout = "2006-01-02"

// SeriesPoint is one day of a dashboard time series.
type SeriesPoint struct {
	Date      string `json:"date"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
	Synthetic bool   `json:"synthetic"`
}

// Summary is a point-in-time rollup of the latest sample of each content item.
type Summary struct {
	TotalViews            int64   `json:"totalViews"`
	TotalLikes            int64   `json:"totalLikes"`
	TotalComments         int64   `json:"totalComments"`
	AverageEngagementRate float64 `json:"averageEngagementRate"`
}

// PlatformEngagement is the average engagement rate of one platform.
type PlatformEngagement struct {
	Platform       string  `json:"platform"`
	EngagementRate float64 `json:"engagementRate"`
	Samples        int     `json:"samples"`
}
