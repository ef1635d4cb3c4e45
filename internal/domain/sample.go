package domain

import "time"

// Counters holds the canonical engagement counters. A nil counter means the
// provider did not report it and no estimate applies.
type Counters struct {
	Views    *int64 `json:"views"`
	Likes    *int64 `json:"likes"`
	Comments *int64 `json:"comments"`
	Shares   *int64 `json:"shares"`
}

// MetricSample is one immutable observation of a content item's counters.
type MetricSample struct {
	ID                string         `json:"id"`
	UserID            int64          `json:"userId"`
	Platform          string         `json:"platform"`
	PlatformContentID string         `json:"platformContentId"`
	RetrievedAt       time.Time      `json:"retrievedAt"`
	Counters                         // views, likes, comments, shares
	EngagementRate    float64        `json:"engagementRate"`
	PlatformSpecific  map[string]any `json:"platformSpecific"`
}

func (s *MetricSample) Key() ContentKey {
	return ContentKey{Platform: s.Platform, PlatformContentID: s.PlatformContentID}
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// ValueOr returns *p, or def when p is nil.
func ValueOr(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}

// Scope narrows aggregate queries. Zero values mean "any".
type Scope struct {
	UserID            int64
	Platform          string
	PlatformContentID string
}

// DayAggregate is the sum of counters for one calendar day.
type DayAggregate struct {
	Date     string `db:"date" json:"date"`
	Views    int64  `db:"views" json:"views"`
	Likes    int64  `db:"likes" json:"likes"`
	Comments int64  `db:"comments" json:"comments"`
}
