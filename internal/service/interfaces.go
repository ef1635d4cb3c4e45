package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"content_metrics/internal/domain"
	"content_metrics/internal/provider"
)

// ContentSource is the read-only view of the content registry.
type ContentSource interface {
	ListTracked(ctx context.Context) ([]domain.ContentRef, error)
	Get(ctx context.Context, contentID int64) (*domain.ContentRef, error)
	ListByPlatform(ctx context.Context, platform string) ([]domain.ContentRef, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.ContentRef, error)
}

// MetricsStore is the append-only sample log.
type MetricsStore interface {
	Append(ctx context.Context, sample *domain.MetricSample) error
	Latest(ctx context.Context, key domain.ContentKey) (*domain.MetricSample, error)
	All(ctx context.Context, key domain.ContentKey) ([]domain.MetricSample, error)
	DayAggregates(ctx context.Context, scope domain.Scope, start time.Time) ([]domain.DayAggregate, error)
	LatestPerContent(ctx context.Context, scope domain.Scope) ([]domain.MetricSample, error)
}

type SweepStateStore interface {
	Get(ctx context.Context, scope string) (*domain.SweepState, error)
	Update(ctx context.Context, state *domain.SweepState) error
}

type AdapterRegistry interface {
	Lookup(platform string) (provider.Adapter, error)
	Platforms() []string
}

// Locker guards one content item across processes. Acquire returns
// domain.ErrRefreshInFlight when the item is already locked.
type Locker interface {
	Acquire(ctx context.Context, key domain.ContentKey) (release func(), err error)
}

type Publisher interface {
	Publish(ctx context.Context, sample *domain.MetricSample) error
	Close() error
}
