package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"content_metrics/internal/domain"
)

const sampleColumns = `id, user_id, platform, platform_content_id, retrieved_at,
	views, likes, comments, shares, engagement_rate, platform_specific`

// MetricsStore is the append-only sample log backed by the content_metrics
// table. The table rejects UPDATE and DELETE.
type MetricsStore struct {
	db       *sqlx.DB
	timezone string
}

// NewMetricsStore returns a store that buckets day aggregates by calendar day
// in timezone, an IANA name such as "UTC" or "Europe/Berlin".
func NewMetricsStore(db *sqlx.DB, timezone string) *MetricsStore {
	if timezone == "" {
		timezone = "UTC"
	}
	return &MetricsStore{db: db, timezone: timezone}
}

type sampleRow struct {
	ID                string          `db:"id"`
	UserID            int64           `db:"user_id"`
	Platform          string          `db:"platform"`
	PlatformContentID string          `db:"platform_content_id"`
	RetrievedAt       time.Time       `db:"retrieved_at"`
	Views             sql.NullInt64   `db:"views"`
	Likes             sql.NullInt64   `db:"likes"`
	Comments          sql.NullInt64   `db:"comments"`
	Shares            sql.NullInt64   `db:"shares"`
	EngagementRate    float64         `db:"engagement_rate"`
	PlatformSpecific  json.RawMessage `db:"platform_specific"`
}

func (s *MetricsStore) Append(ctx context.Context, sample *domain.MetricSample) error {
	specific := sample.PlatformSpecific
	if specific == nil {
		specific = map[string]any{}
	}
	raw, err := json.Marshal(specific)
	if err != nil {
		return fmt.Errorf("marshal platform specific: %w", err)
	}

	query := `
		INSERT INTO content_metrics (
			id, user_id, platform, platform_content_id, retrieved_at,
			views, likes, comments, shares, engagement_rate, platform_specific
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)`

	_, err = s.db.ExecContext(ctx, query,
		sample.ID,
		sample.UserID,
		sample.Platform,
		sample.PlatformContentID,
		sample.RetrievedAt,
		nullInt(sample.Views),
		nullInt(sample.Likes),
		nullInt(sample.Comments),
		nullInt(sample.Shares),
		sample.EngagementRate,
		string(raw),
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// Latest returns the most recent sample for key, or nil when none exists.
func (s *MetricsStore) Latest(ctx context.Context, key domain.ContentKey) (*domain.MetricSample, error) {
	query := `
		SELECT ` + sampleColumns + `
		FROM content_metrics
		WHERE platform = $1 AND platform_content_id = $2
		ORDER BY retrieved_at DESC
		LIMIT 1`

	var row sampleRow
	err := s.db.GetContext(ctx, &row, query, key.Platform, key.PlatformContentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest sample: %w", err)
	}
	return row.toDomain()
}

// All returns every sample for key in ascending retrieval order.
func (s *MetricsStore) All(ctx context.Context, key domain.ContentKey) ([]domain.MetricSample, error) {
	query := `
		SELECT ` + sampleColumns + `
		FROM content_metrics
		WHERE platform = $1 AND platform_content_id = $2
		ORDER BY retrieved_at ASC`

	var rows []sampleRow
	if err := s.db.SelectContext(ctx, &rows, query, key.Platform, key.PlatformContentID); err != nil {
		return nil, fmt.Errorf("select samples: %w", err)
	}
	return toDomain(rows)
}

// DayAggregates sums counters per calendar day from start onwards. Within a
// day only the latest sample of each content item counts.
func (s *MetricsStore) DayAggregates(ctx context.Context, scope domain.Scope, start time.Time) ([]domain.DayAggregate, error) {
	query := `
		WITH daily AS (
			SELECT DISTINCT ON (platform, platform_content_id, (retrieved_at AT TIME ZONE $1)::date)
				(retrieved_at AT TIME ZONE $1)::date AS day,
				views, likes, comments
			FROM content_metrics
			WHERE retrieved_at >= $2
				AND ($3::bigint = 0 OR user_id = $3)
				AND ($4::text = '' OR platform = $4)
				AND ($5::text = '' OR platform_content_id = $5)
			ORDER BY platform, platform_content_id, (retrieved_at AT TIME ZONE $1)::date, retrieved_at DESC
		)
		SELECT
			to_char(day, 'YYYY-MM-DD') AS date,
			COALESCE(SUM(views), 0)    AS views,
			COALESCE(SUM(likes), 0)    AS likes,
			COALESCE(SUM(comments), 0) AS comments
		FROM daily
		GROUP BY day
		ORDER BY day`

	aggs := make([]domain.DayAggregate, 0)
	err := s.db.SelectContext(ctx, &aggs, query,
		s.timezone,
		start,
		scope.UserID,
		scope.Platform,
		scope.PlatformContentID,
	)
	if err != nil {
		return nil, fmt.Errorf("select day aggregates: %w", err)
	}
	return aggs, nil
}

// LatestPerContent returns the most recent sample of every content item in scope.
func (s *MetricsStore) LatestPerContent(ctx context.Context, scope domain.Scope) ([]domain.MetricSample, error) {
	query := `
		SELECT DISTINCT ON (platform, platform_content_id) ` + sampleColumns + `
		FROM content_metrics
		WHERE ($1::bigint = 0 OR user_id = $1)
			AND ($2::text = '' OR platform = $2)
			AND ($3::text = '' OR platform_content_id = $3)
		ORDER BY platform, platform_content_id, retrieved_at DESC`

	var rows []sampleRow
	err := s.db.SelectContext(ctx, &rows, query, scope.UserID, scope.Platform, scope.PlatformContentID)
	if err != nil {
		return nil, fmt.Errorf("select latest per content: %w", err)
	}
	return toDomain(rows)
}

func (r sampleRow) toDomain() (*domain.MetricSample, error) {
	specific := map[string]any{}
	if len(r.PlatformSpecific) > 0 {
		dec := json.NewDecoder(bytes.NewReader(r.PlatformSpecific))
		dec.UseNumber()
		if err := dec.Decode(&specific); err != nil {
			return nil, fmt.Errorf("decode platform specific of %s: %w", r.ID, err)
		}
	}

	return &domain.MetricSample{
		ID:                r.ID,
		UserID:            r.UserID,
		Platform:          r.Platform,
		PlatformContentID: r.PlatformContentID,
		RetrievedAt:       r.RetrievedAt,
		Counters: domain.Counters{
			Views:    intPtr(r.Views),
			Likes:    intPtr(r.Likes),
			Comments: intPtr(r.Comments),
			Shares:   intPtr(r.Shares),
		},
		EngagementRate:   r.EngagementRate,
		PlatformSpecific: specific,
	}, nil
}

func toDomain(rows []sampleRow) ([]domain.MetricSample, error) {
	samples := make([]domain.MetricSample, 0, len(rows))
	for _, row := range rows {
		sample, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		samples = append(samples, *sample)
	}
	return samples, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
