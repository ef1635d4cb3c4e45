// Package engagement computes derived engagement metrics.
package engagement

import "content_metrics/internal/domain"

// Rate returns 100 × (likes + comments + shares) / views. Nil components count
// as zero; nil or zero views give 0.
func Rate(c domain.Counters) float64 {
	views := domain.ValueOr(c.Views, 0)
	if views <= 0 {
		return 0
	}

	total := domain.ValueOr(c.Likes, 0) +
		domain.ValueOr(c.Comments, 0) +
		domain.ValueOr(c.Shares, 0)

	return float64(total) / float64(views) * 100
}

// Apply sets the sample's engagement rate from its counters.
func Apply(sample *domain.MetricSample) {
	sample.EngagementRate = Rate(sample.Counters)
}
