//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"content_metrics/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_contents.up.sql"),
			filepath.Join(migrationsPath, "002_create_content_metrics.up.sql"),
			filepath.Join(migrationsPath, "003_create_sweep_state.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	// The append-only trigger blocks DELETE; TRUNCATE is not a row-level event.
	_, _ = s.db.ExecContext(s.ctx, "TRUNCATE content_metrics")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM contents")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM sweep_state")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) sample(userID int64, platform, id string, at time.Time, views int64) *domain.MetricSample {
	return &domain.MetricSample{
		ID:                uuid.NewString(),
		UserID:            userID,
		Platform:          platform,
		PlatformContentID: id,
		RetrievedAt:       at,
		Counters: domain.Counters{
			Views:    domain.Int64(views),
			Likes:    domain.Int64(views / 10),
			Comments: domain.Int64(1),
		},
		EngagementRate: 11,
	}
}

func (s *PostgresIntegrationSuite) TestMetricsStore_AppendAndLatest() {
	store := NewMetricsStore(s.db, "UTC")
	key := domain.ContentKey{Platform: "instagram", PlatformContentID: "m1"}
	now := time.Now().UTC().Truncate(time.Microsecond)

	older := s.sample(1, key.Platform, key.PlatformContentID, now.Add(-time.Hour), 100)
	newer := s.sample(1, key.Platform, key.PlatformContentID, now, 150)
	newer.Shares = nil
	newer.PlatformSpecific = map[string]any{"timestamp": int64(1704448800000), "mediaType": "VIDEO"}

	s.Require().NoError(store.Append(s.ctx, older))
	s.Require().NoError(store.Append(s.ctx, newer))

	latest, err := store.Latest(s.ctx, key)
	s.NoError(err)
	s.Require().NotNil(latest)
	s.Equal(newer.ID, latest.ID)
	s.Equal(int64(150), *latest.Views)
	s.Nil(latest.Shares)
	s.WithinDuration(now, latest.RetrievedAt, time.Millisecond)
	s.Equal("VIDEO", latest.PlatformSpecific["mediaType"])
	s.Equal(json.Number("1704448800000"), latest.PlatformSpecific["timestamp"])
}

func (s *PostgresIntegrationSuite) TestMetricsStore_LatestMissing() {
	store := NewMetricsStore(s.db, "UTC")

	latest, err := store.Latest(s.ctx, domain.ContentKey{Platform: "youtube", PlatformContentID: "nope"})

	s.NoError(err)
	s.Nil(latest)
}

func (s *PostgresIntegrationSuite) TestMetricsStore_AllAscending() {
	store := NewMetricsStore(s.db, "UTC")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, offset := range []int{3, 1, 2} {
		s.Require().NoError(store.Append(s.ctx, s.sample(1, "youtube", "v1", base.AddDate(0, 0, offset), int64(offset*100))))
	}
	s.Require().NoError(store.Append(s.ctx, s.sample(1, "youtube", "other", base, 5)))

	samples, err := store.All(s.ctx, domain.ContentKey{Platform: "youtube", PlatformContentID: "v1"})
	s.NoError(err)
	s.Require().Len(samples, 3)
	for i := 1; i < len(samples); i++ {
		s.True(samples[i-1].RetrievedAt.Before(samples[i].RetrievedAt))
	}
	s.Equal(int64(100), *samples[0].Views)
}

func (s *PostgresIntegrationSuite) TestMetricsStore_AppendOnly() {
	store := NewMetricsStore(s.db, "UTC")
	sample := s.sample(1, "youtube", "v1", time.Now(), 10)
	s.Require().NoError(store.Append(s.ctx, sample))

	_, err := s.db.ExecContext(s.ctx, "UPDATE content_metrics SET views = 0 WHERE id = $1", sample.ID)
	s.Error(err)

	_, err = s.db.ExecContext(s.ctx, "DELETE FROM content_metrics WHERE id = $1", sample.ID)
	s.Error(err)
}

func (s *PostgresIntegrationSuite) TestMetricsStore_DayAggregates() {
	store := NewMetricsStore(s.db, "UTC")
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	// Two samples of v1 on day1: only the later one counts.
	s.Require().NoError(store.Append(s.ctx, s.sample(7, "youtube", "v1", day1.Add(8*time.Hour), 100)))
	s.Require().NoError(store.Append(s.ctx, s.sample(7, "youtube", "v1", day1.Add(20*time.Hour), 120)))
	s.Require().NoError(store.Append(s.ctx, s.sample(7, "tiktok", "t1", day1.Add(9*time.Hour), 50)))
	s.Require().NoError(store.Append(s.ctx, s.sample(7, "youtube", "v1", day2.Add(time.Hour), 200)))
	// Another user and a sample before the start are excluded.
	s.Require().NoError(store.Append(s.ctx, s.sample(8, "youtube", "x", day1.Add(time.Hour), 999)))
	s.Require().NoError(store.Append(s.ctx, s.sample(7, "youtube", "v1", day1.AddDate(0, 0, -3), 999)))

	aggs, err := store.DayAggregates(s.ctx, domain.Scope{UserID: 7}, day1)
	s.NoError(err)
	s.Require().Len(aggs, 2)
	s.Equal(domain.DayAggregate{Date: "2024-01-01", Views: 170, Likes: 17, Comments: 2}, aggs[0])
	s.Equal(domain.DayAggregate{Date: "2024-01-02", Views: 200, Likes: 20, Comments: 1}, aggs[1])

	aggs, err = store.DayAggregates(s.ctx, domain.Scope{UserID: 7, Platform: "tiktok"}, day1)
	s.NoError(err)
	s.Require().Len(aggs, 1)
	s.Equal(int64(50), aggs[0].Views)
}

func (s *PostgresIntegrationSuite) TestMetricsStore_DayAggregatesTimezone() {
	store := NewMetricsStore(s.db, "Asia/Tokyo")
	// 20:00 UTC on Jan 1 is Jan 2 in Tokyo.
	at := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	s.Require().NoError(store.Append(s.ctx, s.sample(1, "youtube", "v1", at, 10)))

	aggs, err := store.DayAggregates(s.ctx, domain.Scope{UserID: 1}, at.Add(-24*time.Hour))
	s.NoError(err)
	s.Require().Len(aggs, 1)
	s.Equal("2024-01-02", aggs[0].Date)
}

func (s *PostgresIntegrationSuite) TestMetricsStore_LatestPerContent() {
	store := NewMetricsStore(s.db, "UTC")
	now := time.Now().UTC()

	s.Require().NoError(store.Append(s.ctx, s.sample(3, "youtube", "v1", now.Add(-2*time.Hour), 100)))
	s.Require().NoError(store.Append(s.ctx, s.sample(3, "youtube", "v1", now.Add(-time.Hour), 300)))
	s.Require().NoError(store.Append(s.ctx, s.sample(3, "instagram", "m1", now, 40)))
	s.Require().NoError(store.Append(s.ctx, s.sample(4, "instagram", "m2", now, 40)))

	samples, err := store.LatestPerContent(s.ctx, domain.Scope{UserID: 3})
	s.NoError(err)
	s.Require().Len(samples, 2)

	views := map[string]int64{}
	for _, sample := range samples {
		views[sample.PlatformContentID] = *sample.Views
	}
	s.Equal(map[string]int64{"v1": 300, "m1": 40}, views)
}

func (s *PostgresIntegrationSuite) TestContentStore() {
	store := NewContentStore(s.db)
	published := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	var id int64
	err := s.db.GetContext(s.ctx, &id, `
		INSERT INTO contents (user_id, platform, platform_content_id, published_at)
		VALUES ($1, $2, $3, $4) RETURNING id`, 9, "YouTube", "v1", published)
	s.Require().NoError(err)
	_, err = s.db.ExecContext(s.ctx, `
		INSERT INTO contents (user_id, platform, platform_content_id, tracked)
		VALUES (9, 'tiktok', 't1', FALSE)`)
	s.Require().NoError(err)

	ref, err := store.Get(s.ctx, id)
	s.NoError(err)
	s.Equal("v1", ref.PlatformContentID)
	s.Require().NotNil(ref.PublishedAt)
	s.True(published.Equal(*ref.PublishedAt))
	s.NotNil(ref.CreatedAt)

	_, err = store.Get(s.ctx, id+1000)
	s.ErrorIs(err, domain.ErrContentNotFound)

	tracked, err := store.ListTracked(s.ctx)
	s.NoError(err)
	s.Len(tracked, 1)

	byPlatform, err := store.ListByPlatform(s.ctx, "youtube")
	s.NoError(err)
	s.Len(byPlatform, 1)

	byUser, err := store.ListByUser(s.ctx, 9)
	s.NoError(err)
	s.Len(byUser, 2)
}

func (s *PostgresIntegrationSuite) TestSweepStateStore_GetNew() {
	store := NewSweepStateStore(s.db)

	state, err := store.Get(s.ctx, "all")
	s.NoError(err)
	s.NotNil(state)
	s.Equal("all", state.Scope)
	s.True(state.LastSweptAt.IsZero())
	s.Equal(int64(0), state.TotalSamples)
}

func (s *PostgresIntegrationSuite) TestSweepStateStore_UpdateExisting() {
	store := NewSweepStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	state := &domain.SweepState{Scope: "all", LastSweptAt: now, LastSucceeded: 10, LastFailed: 1, TotalSamples: 10}
	s.NoError(store.Update(s.ctx, state))

	state.LastSucceeded = 8
	state.LastFailed = 3
	state.TotalSamples = 18
	s.NoError(store.Update(s.ctx, state))

	retrieved, err := store.Get(s.ctx, "all")
	s.NoError(err)
	s.Equal(int64(8), retrieved.LastSucceeded)
	s.Equal(int64(3), retrieved.LastFailed)
	s.Equal(int64(18), retrieved.TotalSamples)
	s.WithinDuration(now, retrieved.LastSweptAt, time.Second)
}
