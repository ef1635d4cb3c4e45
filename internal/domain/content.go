package domain

import (
	"strings"
	"time"
)

// Platform tags of the built-in provider adapters.
const (
	PlatformYouTube   = "youtube"
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
)

// NormalizePlatform lower-cases and trims a platform tag so lookups are case-insensitive.
func NormalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// ContentKey identifies the sample log of one content item on one platform.
type ContentKey struct {
	Platform          string
	PlatformContentID string
}

func (k ContentKey) String() string {
	return k.Platform + ":" + k.PlatformContentID
}

// ContentRef is a tracked content item as recorded by the content registry.
// The registry owns it; the metrics pipeline only reads it.
type ContentRef struct {
	ContentID         int64      `db:"id"`
	UserID            int64      `db:"user_id"`
	Platform          string     `db:"platform"`
	PlatformContentID string     `db:"platform_content_id"`
	PublishedAt       *time.Time `db:"published_at"`
	CreatedAt         *time.Time `db:"created_at"`
}

func (c ContentRef) Key() ContentKey {
	return ContentKey{
		Platform:          NormalizePlatform(c.Platform),
		PlatformContentID: c.PlatformContentID,
	}
}
