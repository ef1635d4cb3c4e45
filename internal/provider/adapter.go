// Package provider defines the per-platform metrics adapter contract and the
// registry that dispatches to adapters by platform tag.
package provider

//go:generate mockgen -source=adapter.go -destination=mocks/adapter.go -package=mocks

import (
	"context"

	"content_metrics/internal/domain"
)

// RawMetrics is an undecoded provider response for one content item.
type RawMetrics struct {
	Platform          string
	PlatformContentID string
	Body              []byte
}

// Adapter fetches and normalizes metrics for one platform.
//
// Fetch performs exactly one outbound request and must honor ctx cancellation.
// Normalize maps the provider payload onto canonical counters, applying the
// documented estimates in heuristics.go for absent fields. The returned sample
// carries Platform, PlatformContentID, Counters and PlatformSpecific only.
type Adapter interface {
	Platform() string
	Fetch(ctx context.Context, platformContentID string) (*RawMetrics, error)
	Normalize(raw *RawMetrics) (*domain.MetricSample, error)
}
