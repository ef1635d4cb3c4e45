package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"content_metrics/internal/config"
	"content_metrics/internal/domain"
	"content_metrics/internal/engagement"
)

// SweepScope is the sweep_state key of the periodic sweep over all tracked content.
const SweepScope = "all"

// IngestService runs the fetch, normalize, rate and append pipeline for
// content items, either as a periodic sweep or on demand.
type IngestService struct {
	contents   ContentSource
	adapters   AdapterRegistry
	metrics    MetricsStore
	sweepState SweepStateStore
	locker     Locker
	publisher  Publisher
	logger     *slog.Logger
	config     config.SyncConfig

	inflight singleflight.Group
	now      func() time.Time
	newID    func() string
}

// NewIngestService wires the pipeline. locker and publisher may be nil.
func NewIngestService(
	contents ContentSource,
	adapters AdapterRegistry,
	metrics MetricsStore,
	sweepState SweepStateStore,
	locker Locker,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *IngestService {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &IngestService{
		contents:   contents,
		adapters:   adapters,
		metrics:    metrics,
		sweepState: sweepState,
		locker:     locker,
		publisher:  publisher,
		logger:     logger.With("component", "ingest"),
		config:     cfg,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

type itemOutcome struct {
	ref       domain.ContentRef
	sample    *domain.MetricSample
	published bool
	err       error
}

// Refresh fetches and stores a new sample for one content item. Errors are
// returned to the caller unchanged in kind.
func (s *IngestService) Refresh(ctx context.Context, contentID int64) (*domain.MetricSample, error) {
	ref, err := s.contents.Get(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}

	out := s.process(ctx, *ref)
	if out.err != nil {
		return nil, out.err
	}
	return out.sample, nil
}

// RefreshPlatform refreshes every tracked item of one platform and reports
// each item's result.
func (s *IngestService) RefreshPlatform(ctx context.Context, platform string) ([]domain.ItemResult, error) {
	refs, err := s.contents.ListByPlatform(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("list contents by platform: %w", err)
	}
	return toResults(s.runItems(ctx, refs)), nil
}

// RefreshUser refreshes every content item of one user.
func (s *IngestService) RefreshUser(ctx context.Context, userID int64) ([]domain.ItemResult, error) {
	refs, err := s.contents.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list contents by user: %w", err)
	}
	return toResults(s.runItems(ctx, refs)), nil
}

// Sweep refreshes all tracked content. Item failures are counted and logged
// and never abort the sweep.
func (s *IngestService) Sweep(ctx context.Context) (*domain.SweepStats, error) {
	startTime := s.now()
	sweepID := s.newID()
	logger := s.logger.With("sweep_id", sweepID)

	refs, err := s.contents.ListTracked(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracked content: %w", err)
	}

	logger.Info("starting sweep", "items", len(refs), "workers", s.config.Workers)

	stats := &domain.SweepStats{
		SweepID: sweepID,
		Total:   len(refs),
	}

	for _, out := range s.runItems(ctx, refs) {
		switch {
		case out.err == nil:
			stats.Succeeded++
			if out.published {
				stats.Published++
			}
		case errors.Is(out.err, domain.ErrRefreshInFlight):
			stats.Skipped++
			logger.Debug("item already in flight",
				"content_id", out.ref.ContentID,
				"platform", out.ref.Platform,
			)
		default:
			stats.Failed++
			kind := domain.ErrorKind(out.err)
			stats.Failures = append(stats.Failures, domain.ItemFailure{
				ContentID: out.ref.ContentID,
				Platform:  out.ref.Platform,
				Kind:      kind,
				Err:       out.err,
			})
			logger.Warn("item refresh failed",
				"content_id", out.ref.ContentID,
				"platform", out.ref.Platform,
				"platform_content_id", out.ref.PlatformContentID,
				"kind", kind,
				"error", out.err,
			)
		}
	}

	stats.Duration = s.now().Sub(startTime)

	if err := s.updateSweepState(ctx, stats); err != nil {
		return stats, fmt.Errorf("update sweep state: %w", err)
	}

	logger.Info("sweep completed",
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

// runItems processes refs on a bounded worker pool. Results keep the order of refs.
func (s *IngestService) runItems(ctx context.Context, refs []domain.ContentRef) []itemOutcome {
	outcomes := make([]itemOutcome, len(refs))

	var g errgroup.Group
	g.SetLimit(s.config.Workers)

	for i := range refs {
		g.Go(func() error {
			outcomes[i] = s.process(ctx, refs[i])
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// process runs the pipeline for one item. Concurrent calls for the same
// content key share one execution.
func (s *IngestService) process(ctx context.Context, ref domain.ContentRef) itemOutcome {
	key := ref.Key()

	// The shared execution outlives any single caller. FetchTimeout still bounds it.
	detached := context.WithoutCancel(ctx)
	v, err, shared := s.inflight.Do(key.String(), func() (any, error) {
		return s.fetchAndStore(detached, ref)
	})
	if err != nil {
		return itemOutcome{ref: ref, err: err}
	}

	out := v.(*itemOutcome)
	if shared {
		// Only the call that executed the pipeline reports the publish.
		return itemOutcome{ref: ref, sample: out.sample}
	}
	return itemOutcome{ref: ref, sample: out.sample, published: out.published}
}

func (s *IngestService) fetchAndStore(ctx context.Context, ref domain.ContentRef) (*itemOutcome, error) {
	key := ref.Key()

	adapter, err := s.adapters.Lookup(key.Platform)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
	defer cancel()

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, key)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	raw, err := adapter.Fetch(ctx, ref.PlatformContentID)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	sample, err := adapter.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", key, err)
	}

	sample.ID = s.newID()
	sample.UserID = ref.UserID
	sample.Platform = key.Platform
	sample.PlatformContentID = ref.PlatformContentID
	sample.RetrievedAt = s.now().UTC()
	engagement.Apply(sample)

	if err := s.metrics.Append(ctx, sample); err != nil {
		return nil, &domain.StoreError{Op: "append " + key.String(), Err: err}
	}

	s.logger.Debug("sample saved",
		"sample_id", sample.ID,
		"content_id", ref.ContentID,
		"platform", key.Platform,
		"platform_content_id", ref.PlatformContentID,
		"views", domain.ValueOr(sample.Views, 0),
		"likes", domain.ValueOr(sample.Likes, 0),
		"comments", domain.ValueOr(sample.Comments, 0),
		"shares", domain.ValueOr(sample.Shares, 0),
		"engagement_rate", sample.EngagementRate,
	)

	out := &itemOutcome{ref: ref, sample: sample}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, sample); err != nil {
			s.logger.Warn("failed to publish sample", "sample_id", sample.ID, "error", err)
		} else {
			out.published = true
		}
	}
	return out, nil
}

func (s *IngestService) updateSweepState(ctx context.Context, stats *domain.SweepStats) error {
	state, err := s.sweepState.Get(ctx, SweepScope)
	if err != nil {
		return err
	}

	state.Scope = SweepScope
	state.LastSweptAt = s.now()
	state.LastSucceeded = int64(stats.Succeeded)
	state.LastFailed = int64(stats.Failed)
	state.TotalSamples += int64(stats.Succeeded)

	return s.sweepState.Update(ctx, state)
}

func toResults(outcomes []itemOutcome) []domain.ItemResult {
	results := make([]domain.ItemResult, 0, len(outcomes))
	for _, out := range outcomes {
		results = append(results, domain.ItemResult{
			ContentID: out.ref.ContentID,
			Sample:    out.sample,
			Err:       out.err,
		})
	}
	return results
}
