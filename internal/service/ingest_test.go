package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"content_metrics/internal/config"
	"content_metrics/internal/domain"
	"content_metrics/internal/provider"
	providermocks "content_metrics/internal/provider/mocks"
	"content_metrics/internal/service/mocks"
)

type IngestServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	contents   *mocks.MockContentSource
	adapters   *mocks.MockAdapterRegistry
	metrics    *mocks.MockMetricsStore
	sweepState *mocks.MockSweepStateStore
	locker     *mocks.MockLocker
	publisher  *mocks.MockPublisher
	youtube    *providermocks.MockAdapter

	service *IngestService
	cfg     config.SyncConfig
	logger  *slog.Logger
	now     time.Time

	mu       sync.Mutex
	appended []*domain.MetricSample
}

func (s *IngestServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.contents = mocks.NewMockContentSource(s.ctrl)
	s.adapters = mocks.NewMockAdapterRegistry(s.ctrl)
	s.metrics = mocks.NewMockMetricsStore(s.ctrl)
	s.sweepState = mocks.NewMockSweepStateStore(s.ctrl)
	s.locker = mocks.NewMockLocker(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.youtube = providermocks.NewMockAdapter(s.ctrl)

	s.cfg = config.SyncConfig{
		Interval:     5 * time.Minute,
		Workers:      4,
		FetchTimeout: time.Second,
		SweepTimeout: time.Minute,
	}

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	s.appended = nil

	s.adapters.EXPECT().Lookup(domain.PlatformYouTube).Return(s.youtube, nil).AnyTimes()

	s.service = NewIngestService(
		s.contents,
		s.adapters,
		s.metrics,
		s.sweepState,
		s.locker,
		s.publisher,
		s.logger,
		s.cfg,
	)
	s.service.now = func() time.Time { return s.now }
}

func (s *IngestServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestIngestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IngestServiceTestSuite))
}

func trackedRef(id int64, pcid string) domain.ContentRef {
	return domain.ContentRef{
		ContentID:         id,
		UserID:            42,
		Platform:          "YouTube",
		PlatformContentID: pcid,
	}
}

// expectFetch makes the youtube adapter return views/likes/comments for pcid.
func (s *IngestServiceTestSuite) expectFetch(pcid string, views, likes, comments int64) {
	raw := &provider.RawMetrics{Platform: domain.PlatformYouTube, PlatformContentID: pcid}
	s.youtube.EXPECT().Fetch(gomock.Any(), pcid).Return(raw, nil)
	s.youtube.EXPECT().Normalize(raw).DoAndReturn(func(raw *provider.RawMetrics) (*domain.MetricSample, error) {
		return &domain.MetricSample{
			Platform:          raw.Platform,
			PlatformContentID: raw.PlatformContentID,
			Counters: domain.Counters{
				Views:    domain.Int64(views),
				Likes:    domain.Int64(likes),
				Comments: domain.Int64(comments),
			},
			PlatformSpecific: map[string]any{"publishedAt": "2024-01-01T00:00:00Z"},
		}, nil
	})
}

func (s *IngestServiceTestSuite) expectUnlocked() {
	s.locker.EXPECT().Acquire(gomock.Any(), gomock.Any()).Return(func() {}, nil).AnyTimes()
}

func (s *IngestServiceTestSuite) captureAppends(times int) {
	s.metrics.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sample *domain.MetricSample) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.appended = append(s.appended, sample)
			return nil
		},
	).Times(times)
}

func (s *IngestServiceTestSuite) appendedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.appended))
	for _, sample := range s.appended {
		ids = append(ids, sample.PlatformContentID)
	}
	return ids
}

func (s *IngestServiceTestSuite) TestRefresh_Success() {
	ctx := context.Background()

	s.contents.EXPECT().Get(ctx, int64(1)).Return(&domain.ContentRef{
		ContentID: 1, UserID: 42, Platform: "YouTube", PlatformContentID: "vid1",
	}, nil)
	s.expectUnlocked()
	s.expectFetch("vid1", 1000, 40, 10)
	s.captureAppends(1)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	sample, err := s.service.Refresh(ctx, 1)

	s.Require().NoError(err)
	s.NotEmpty(sample.ID)
	s.Equal(int64(42), sample.UserID)
	s.Equal(domain.PlatformYouTube, sample.Platform)
	s.Equal("vid1", sample.PlatformContentID)
	s.Equal(s.now, sample.RetrievedAt)
	s.InDelta(5.0, sample.EngagementRate, 1e-9)
	s.Equal([]string{"vid1"}, s.appendedIDs())
}

func (s *IngestServiceTestSuite) TestRefresh_PropagatesFetchError() {
	ctx := context.Background()

	s.contents.EXPECT().Get(ctx, int64(1)).Return(&domain.ContentRef{
		ContentID: 1, Platform: domain.PlatformYouTube, PlatformContentID: "gone",
	}, nil)
	s.expectUnlocked()
	s.youtube.EXPECT().Fetch(gomock.Any(), "gone").
		Return(nil, domain.NewFetchError(domain.NotFound, domain.PlatformYouTube, "gone", nil))

	sample, err := s.service.Refresh(ctx, 1)

	s.Nil(sample)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *IngestServiceTestSuite) TestRefresh_UnsupportedPlatform() {
	ctx := context.Background()

	s.contents.EXPECT().Get(ctx, int64(3)).Return(&domain.ContentRef{
		ContentID: 3, Platform: "myspace", PlatformContentID: "x",
	}, nil)
	s.adapters.EXPECT().Lookup("myspace").
		Return(nil, domain.NewFetchError(domain.UnsupportedPlatform, "myspace", "", nil))

	_, err := s.service.Refresh(ctx, 3)

	s.ErrorIs(err, domain.ErrUnsupportedPlatform)
}

func (s *IngestServiceTestSuite) TestRefresh_StoreFailure() {
	ctx := context.Background()

	s.contents.EXPECT().Get(ctx, int64(1)).Return(&domain.ContentRef{
		ContentID: 1, Platform: domain.PlatformYouTube, PlatformContentID: "vid1",
	}, nil)
	s.expectUnlocked()
	s.expectFetch("vid1", 10, 1, 0)
	s.metrics.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := s.service.Refresh(ctx, 1)

	var storeErr *domain.StoreError
	s.Require().ErrorAs(err, &storeErr)
	s.ErrorIs(err, domain.ErrWriteFailure)
}

func (s *IngestServiceTestSuite) TestRefresh_ContentNotFound() {
	ctx := context.Background()

	s.contents.EXPECT().Get(ctx, int64(9)).Return(nil, domain.ErrContentNotFound)

	_, err := s.service.Refresh(ctx, 9)

	s.ErrorIs(err, domain.ErrContentNotFound)
}

func (s *IngestServiceTestSuite) TestRefresh_ConcurrentCallsShareOneFetch() {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	s.contents.EXPECT().Get(ctx, int64(1)).Return(&domain.ContentRef{
		ContentID: 1, Platform: domain.PlatformYouTube, PlatformContentID: "vid1",
	}, nil).Times(2)
	s.expectUnlocked()

	raw := &provider.RawMetrics{Platform: domain.PlatformYouTube, PlatformContentID: "vid1"}
	s.youtube.EXPECT().Fetch(gomock.Any(), "vid1").DoAndReturn(
		func(context.Context, string) (*provider.RawMetrics, error) {
			close(started)
			<-release
			return raw, nil
		},
	).Times(1)
	s.youtube.EXPECT().Normalize(raw).Return(&domain.MetricSample{
		Counters: domain.Counters{Views: domain.Int64(100)},
	}, nil).Times(1)
	s.captureAppends(1)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	var wg sync.WaitGroup
	results := make([]*domain.MetricSample, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = s.service.Refresh(ctx, 1)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = s.service.Refresh(ctx, 1)
	}()
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	s.NoError(errs[0])
	s.NoError(errs[1])
	s.Same(results[0], results[1])
	s.Len(s.appendedIDs(), 1)
}

func (s *IngestServiceTestSuite) TestRefresh_CallerCancellationDoesNotAbortFetch() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.contents.EXPECT().Get(ctx, int64(1)).Return(&domain.ContentRef{
		ContentID: 1, Platform: domain.PlatformYouTube, PlatformContentID: "vid1",
	}, nil)
	s.expectUnlocked()

	raw := &provider.RawMetrics{Platform: domain.PlatformYouTube, PlatformContentID: "vid1"}
	s.youtube.EXPECT().Fetch(gomock.Any(), "vid1").DoAndReturn(
		func(fetchCtx context.Context, _ string) (*provider.RawMetrics, error) {
			cancel()
			s.NoError(fetchCtx.Err())
			_, ok := fetchCtx.Deadline()
			s.True(ok)
			return raw, nil
		},
	)
	s.youtube.EXPECT().Normalize(raw).Return(&domain.MetricSample{
		Counters: domain.Counters{Views: domain.Int64(100)},
	}, nil)
	s.captureAppends(1)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	sample, err := s.service.Refresh(ctx, 1)

	s.Require().NoError(err)
	s.Equal(int64(100), *sample.Views)
	s.Equal([]string{"vid1"}, s.appendedIDs())
}

func (s *IngestServiceTestSuite) TestSweep_PartialFailures() {
	ctx := context.Background()

	refs := []domain.ContentRef{trackedRef(1, "a"), trackedRef(2, "b"), trackedRef(3, "c"), trackedRef(4, "d"), trackedRef(5, "e")}
	s.contents.EXPECT().ListTracked(ctx).Return(refs, nil)
	s.expectUnlocked()

	s.expectFetch("a", 100, 5, 1)
	s.expectFetch("c", 200, 10, 2)
	s.expectFetch("e", 300, 15, 3)
	s.youtube.EXPECT().Fetch(gomock.Any(), "b").
		Return(nil, domain.NewFetchError(domain.QuotaExceeded, domain.PlatformYouTube, "b", nil))
	s.youtube.EXPECT().Fetch(gomock.Any(), "d").
		Return(nil, domain.NewFetchError(domain.NetworkFailure, domain.PlatformYouTube, "d", errors.New("dial tcp")))

	s.captureAppends(3)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	s.sweepState.EXPECT().Get(ctx, SweepScope).Return(&domain.SweepState{Scope: SweepScope, TotalSamples: 10}, nil)
	s.sweepState.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, state *domain.SweepState) error {
			s.Equal(int64(13), state.TotalSamples)
			s.Equal(int64(3), state.LastSucceeded)
			s.Equal(int64(2), state.LastFailed)
			s.Equal(s.now, state.LastSweptAt)
			return nil
		},
	)

	stats, err := s.service.Sweep(ctx)

	s.Require().NoError(err)
	s.NotEmpty(stats.SweepID)
	s.Equal(5, stats.Total)
	s.Equal(3, stats.Succeeded)
	s.Equal(2, stats.Failed)
	s.Equal(0, stats.Skipped)
	s.Equal(3, stats.Published)
	s.ElementsMatch([]string{"a", "c", "e"}, s.appendedIDs())

	s.Require().Len(stats.Failures, 2)
	kinds := map[int64]string{}
	for _, f := range stats.Failures {
		kinds[f.ContentID] = f.Kind
	}
	s.Equal(map[int64]string{2: "quota_exceeded", 4: "network_failure"}, kinds)
}

func (s *IngestServiceTestSuite) TestSweep_LockedItemsAreSkipped() {
	ctx := context.Background()

	s.contents.EXPECT().ListTracked(ctx).Return([]domain.ContentRef{trackedRef(1, "a"), trackedRef(2, "b")}, nil)
	s.locker.EXPECT().Acquire(gomock.Any(), domain.ContentKey{Platform: "youtube", PlatformContentID: "a"}).
		Return(func() {}, nil)
	s.locker.EXPECT().Acquire(gomock.Any(), domain.ContentKey{Platform: "youtube", PlatformContentID: "b"}).
		Return(nil, domain.ErrRefreshInFlight)

	s.expectFetch("a", 100, 5, 1)
	s.captureAppends(1)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	s.sweepState.EXPECT().Get(ctx, SweepScope).Return(&domain.SweepState{}, nil)
	s.sweepState.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	stats, err := s.service.Sweep(ctx)

	s.Require().NoError(err)
	s.Equal(1, stats.Succeeded)
	s.Equal(0, stats.Failed)
	s.Equal(1, stats.Skipped)
	s.Empty(stats.Failures)
}

func (s *IngestServiceTestSuite) TestSweep_SlowFetchTimesOutWithoutStallingOthers() {
	ctx := context.Background()
	s.service.config.FetchTimeout = 50 * time.Millisecond

	s.contents.EXPECT().ListTracked(ctx).Return([]domain.ContentRef{trackedRef(1, "slow"), trackedRef(2, "fast")}, nil)
	s.expectUnlocked()

	s.youtube.EXPECT().Fetch(gomock.Any(), "slow").DoAndReturn(
		func(ctx context.Context, pcid string) (*provider.RawMetrics, error) {
			<-ctx.Done()
			return nil, domain.NewFetchError(domain.NetworkFailure, domain.PlatformYouTube, pcid, ctx.Err())
		},
	)
	s.expectFetch("fast", 100, 5, 1)
	s.captureAppends(1)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	s.sweepState.EXPECT().Get(ctx, SweepScope).Return(&domain.SweepState{}, nil)
	s.sweepState.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	stats, err := s.service.Sweep(ctx)

	s.Require().NoError(err)
	s.Equal(1, stats.Succeeded)
	s.Equal(1, stats.Failed)
	s.Require().Len(stats.Failures, 1)
	s.ErrorIs(stats.Failures[0].Err, context.DeadlineExceeded)
}

func (s *IngestServiceTestSuite) TestSweep_PublishFailureDoesNotFailItem() {
	ctx := context.Background()

	s.contents.EXPECT().ListTracked(ctx).Return([]domain.ContentRef{trackedRef(1, "a")}, nil)
	s.expectUnlocked()
	s.expectFetch("a", 100, 5, 1)
	s.captureAppends(1)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("channel closed"))

	s.sweepState.EXPECT().Get(ctx, SweepScope).Return(&domain.SweepState{}, nil)
	s.sweepState.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	stats, err := s.service.Sweep(ctx)

	s.Require().NoError(err)
	s.Equal(1, stats.Succeeded)
	s.Equal(0, stats.Published)
}

func (s *IngestServiceTestSuite) TestSweep_ListFailure() {
	ctx := context.Background()

	s.contents.EXPECT().ListTracked(ctx).Return(nil, errors.New("registry down"))

	stats, err := s.service.Sweep(ctx)

	s.Error(err)
	s.Nil(stats)
}

func (s *IngestServiceTestSuite) TestSweep_WithoutLockerOrPublisher() {
	ctx := context.Background()
	svc := NewIngestService(s.contents, s.adapters, s.metrics, s.sweepState, nil, nil, s.logger, s.cfg)

	s.contents.EXPECT().ListTracked(ctx).Return([]domain.ContentRef{trackedRef(1, "a")}, nil)
	s.expectFetch("a", 100, 5, 1)
	s.captureAppends(1)
	s.sweepState.EXPECT().Get(ctx, SweepScope).Return(&domain.SweepState{}, nil)
	s.sweepState.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	stats, err := svc.Sweep(ctx)

	s.Require().NoError(err)
	s.Equal(1, stats.Succeeded)
	s.Equal(0, stats.Published)
}

func (s *IngestServiceTestSuite) TestRefreshPlatform_ReportsPerItem() {
	ctx := context.Background()

	s.contents.EXPECT().ListByPlatform(ctx, domain.PlatformYouTube).
		Return([]domain.ContentRef{trackedRef(1, "a"), trackedRef(2, "b")}, nil)
	s.expectUnlocked()
	s.expectFetch("a", 100, 5, 1)
	s.youtube.EXPECT().Fetch(gomock.Any(), "b").
		Return(nil, domain.NewFetchError(domain.ParseFailure, domain.PlatformYouTube, "b", nil))
	s.captureAppends(1)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	results, err := s.service.RefreshPlatform(ctx, domain.PlatformYouTube)

	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(int64(1), results[0].ContentID)
	s.NoError(results[0].Err)
	s.NotNil(results[0].Sample)
	s.Equal(int64(2), results[1].ContentID)
	s.ErrorIs(results[1].Err, domain.ErrParseFailure)
	s.Nil(results[1].Sample)
}

func (s *IngestServiceTestSuite) TestRefreshUser() {
	ctx := context.Background()

	s.contents.EXPECT().ListByUser(ctx, int64(42)).Return([]domain.ContentRef{trackedRef(1, "a")}, nil)
	s.expectUnlocked()
	s.expectFetch("a", 100, 5, 1)
	s.captureAppends(1)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	results, err := s.service.RefreshUser(ctx, 42)

	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.NoError(results[0].Err)
	s.Equal(int64(42), results[0].Sample.UserID)
}
