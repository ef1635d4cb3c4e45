package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"content_metrics/internal/domain"
	"content_metrics/internal/publishdate"
	"content_metrics/internal/timeseries"
)

// UserSeriesMinSpan is how far back a user series reaches at minimum.
const UserSeriesMinSpan = 30 * 24 * time.Hour

// AnalyticsService answers dashboard reads. Metrics store failures degrade to
// synthetic or zero values and are logged; only registry lookups can fail.
type AnalyticsService struct {
	contents       ContentSource
	metrics        MetricsStore
	resolver       *publishdate.Resolver
	builder        *timeseries.Builder
	logger         *slog.Logger
	platformWindow int

	now func() time.Time
}

func NewAnalyticsService(
	contents ContentSource,
	metrics MetricsStore,
	resolver *publishdate.Resolver,
	builder *timeseries.Builder,
	logger *slog.Logger,
	platformWindowDays int,
) *AnalyticsService {
	if platformWindowDays < 1 {
		platformWindowDays = 30
	}
	return &AnalyticsService{
		contents:       contents,
		metrics:        metrics,
		resolver:       resolver,
		builder:        builder,
		logger:         logger.With("component", "analytics"),
		platformWindow: platformWindowDays,
		now:            time.Now,
	}
}

// ContentSeries returns the gapless daily series of one content item from its
// resolved anchor to today.
func (s *AnalyticsService) ContentSeries(ctx context.Context, contentID int64) ([]domain.SeriesPoint, error) {
	ref, err := s.contents.Get(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}

	key := ref.Key()
	now := s.now()

	latest, err := s.metrics.Latest(ctx, key)
	if err != nil {
		s.logger.Warn("failed to load latest sample", "content_id", contentID, "error", err)
		latest = nil
	}

	samples, err := s.metrics.All(ctx, key)
	if err != nil {
		s.logger.Warn("failed to load samples", "content_id", contentID, "error", err)
		samples = nil
	}

	anchor := s.resolver.Resolve(*ref, latest, now)
	s.logger.Debug("resolved anchor",
		"content_id", contentID,
		"anchor", anchor.At,
		"tier", anchor.Tier.String(),
	)

	return s.builder.FromSamples(samples, anchor.At, now), nil
}

// UserSeries returns the summed daily series over all of a user's content. It
// starts at the earliest content anchor and covers at least UserSeriesMinSpan.
func (s *AnalyticsService) UserSeries(ctx context.Context, userID int64) ([]domain.SeriesPoint, error) {
	refs, err := s.contents.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list contents by user: %w", err)
	}

	now := s.now()
	scope := domain.Scope{UserID: userID}
	anchor := s.earliestAnchor(ctx, scope, refs, now)

	aggs, err := s.metrics.DayAggregates(ctx, scope, s.builder.StartOfDay(anchor))
	if err != nil {
		s.logger.Warn("failed to load day aggregates", "user_id", userID, "error", err)
		aggs = nil
	}

	return s.builder.FromAggregates(aggs, anchor, now), nil
}

// PlatformSeries returns the summed daily series of a user's content on one
// platform over the trailing platform window, today included.
func (s *AnalyticsService) PlatformSeries(ctx context.Context, userID int64, platform string) []domain.SeriesPoint {
	now := s.now()
	start := s.builder.StartOfDay(now).AddDate(0, 0, -(s.platformWindow - 1))
	scope := domain.Scope{UserID: userID, Platform: domain.NormalizePlatform(platform)}

	aggs, err := s.metrics.DayAggregates(ctx, scope, start)
	if err != nil {
		s.logger.Warn("failed to load day aggregates",
			"user_id", userID,
			"platform", scope.Platform,
			"error", err,
		)
		aggs = nil
	}

	return s.builder.FromAggregates(aggs, start, now)
}

// Summary totals the latest sample of each of a user's content items,
// optionally restricted to one platform.
func (s *AnalyticsService) Summary(ctx context.Context, userID int64, platform string) domain.Summary {
	scope := domain.Scope{UserID: userID, Platform: domain.NormalizePlatform(platform)}

	latest, err := s.metrics.LatestPerContent(ctx, scope)
	if err != nil {
		s.logger.Warn("failed to load latest samples", "user_id", userID, "error", err)
		return domain.Summary{}
	}

	var summary domain.Summary
	var rateSum float64
	for _, sample := range latest {
		summary.TotalViews += domain.ValueOr(sample.Views, 0)
		summary.TotalLikes += domain.ValueOr(sample.Likes, 0)
		summary.TotalComments += domain.ValueOr(sample.Comments, 0)
		rateSum += sample.EngagementRate
	}
	if len(latest) > 0 {
		summary.AverageEngagementRate = rateSum / float64(len(latest))
	}
	return summary
}

// EngagementByPlatform averages the engagement rate of the latest sample of
// each content item per platform. Platforms without samples report 0.
func (s *AnalyticsService) EngagementByPlatform(ctx context.Context, userID int64, platforms []string) []domain.PlatformEngagement {
	latest, err := s.metrics.LatestPerContent(ctx, domain.Scope{UserID: userID})
	if err != nil {
		s.logger.Warn("failed to load latest samples", "user_id", userID, "error", err)
		latest = nil
	}

	type acc struct {
		sum   float64
		count int
	}
	byPlatform := make(map[string]*acc)
	for _, sample := range latest {
		p := domain.NormalizePlatform(sample.Platform)
		a, ok := byPlatform[p]
		if !ok {
			a = &acc{}
			byPlatform[p] = a
		}
		a.sum += sample.EngagementRate
		a.count++
	}

	result := make([]domain.PlatformEngagement, 0, len(platforms))
	for _, platform := range platforms {
		p := domain.NormalizePlatform(platform)
		pe := domain.PlatformEngagement{Platform: p}
		if a, ok := byPlatform[p]; ok && a.count > 0 {
			pe.EngagementRate = a.sum / float64(a.count)
			pe.Samples = a.count
		}
		result = append(result, pe)
	}
	return result
}

func (s *AnalyticsService) earliestAnchor(ctx context.Context, scope domain.Scope, refs []domain.ContentRef, now time.Time) time.Time {
	anchor := now.Add(-UserSeriesMinSpan)
	if len(refs) == 0 {
		return anchor
	}

	latestByKey := make(map[domain.ContentKey]*domain.MetricSample, len(refs))
	latest, err := s.metrics.LatestPerContent(ctx, scope)
	if err != nil {
		s.logger.Warn("failed to load latest samples", "user_id", scope.UserID, "error", err)
	}
	for i := range latest {
		latestByKey[latest[i].Key()] = &latest[i]
	}

	for _, ref := range refs {
		res := s.resolver.Resolve(ref, latestByKey[ref.Key()], now)
		if res.At.Before(anchor) {
			anchor = res.At
		}
	}
	return anchor
}
