package provider

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"content_metrics/internal/domain"
)

// Estimates applied when a provider omits a canonical counter. They are
// deterministic and stable; counters without an entry here stay nil.
//
//	likes    round(views × LikesPerView), all platforms; nil when views is nil
//	views    instagram only: video_views insight, then impressions insight
const LikesPerView = 0.02

// EstimateLikes returns round(views × LikesPerView), or nil when views is nil.
func EstimateLikes(views *int64) *int64 {
	if views == nil {
		return nil
	}
	v := int64(math.Round(float64(*views) * LikesPerView))
	return &v
}

// LikesOrEstimate returns likes when reported, otherwise the estimate from views.
func LikesOrEstimate(likes, views *int64) *int64 {
	if likes != nil {
		return likes
	}
	return EstimateLikes(views)
}

// FirstPresent returns the first non-nil value.
func FirstPresent(values ...*int64) *int64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// ParseCount parses a decimal counter transmitted as a string. Empty input
// means the counter is absent.
func ParseCount(s *string) (*int64, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse count %q: %w", *s, err)
	}
	if v < 0 {
		return nil, fmt.Errorf("negative count %d", v)
	}
	return &v, nil
}

// Count is a named counter as reported by a provider.
type Count struct {
	Name  string
	Value *int64
}

// CheckCounts returns a ParseFailure naming the first negative counter.
// Absent counters pass.
func CheckCounts(platform, contentID string, counts ...Count) error {
	for _, c := range counts {
		if c.Value != nil && *c.Value < 0 {
			return domain.NewFetchError(domain.ParseFailure, platform, contentID,
				fmt.Errorf("negative %s %d", c.Name, *c.Value))
		}
	}
	return nil
}
