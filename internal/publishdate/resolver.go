// Package publishdate resolves the anchor date a content item's time series
// starts from.
//
// Sources are tried in order, each only when the previous one is absent or
// unparsable:
//
//  1. the platform metadata key of the latest sample (see DefaultRules)
//  2. the registry's recorded published timestamp
//  3. the registry's creation timestamp
//  4. now minus the fallback age (30 days by default)
//
// Resolution never fails; parse errors are logged and fall through.
package publishdate

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"content_metrics/internal/domain"
)

// Format is the encoding of a platform publish-date value.
type Format int

const (
	// RFC3339 is ISO-8601 with a trailing zone marker, e.g. 2024-01-05T10:00:00Z.
	RFC3339 Format = iota
	// EpochMillis is an integer count of milliseconds since the Unix epoch.
	EpochMillis
	// LocalISO is ISO-8601 without a zone marker, interpreted as UTC.
	LocalISO
)

const localISOLayout = "2006-01-02T15:04:05"

// DefaultFallbackAge is how far before now the anchor falls when no source
// yields a date.
const DefaultFallbackAge = 30 * 24 * time.Hour

func (f Format) String() string {
	switch f {
	case RFC3339:
		return "rfc3339"
	case EpochMillis:
		return "epoch_millis"
	case LocalISO:
		return "local_iso"
	default:
		return "unknown"
	}
}

// Rule names the platform-specific key holding the publish date and its format.
type Rule struct {
	Key    string
	Format Format
}

// DefaultRules is the stable per-platform key and format table. The keys are
// written by the provider adapters.
var DefaultRules = map[string]Rule{
	domain.PlatformYouTube:   {Key: "publishedAt", Format: RFC3339},
	domain.PlatformInstagram: {Key: "timestamp", Format: EpochMillis},
	domain.PlatformTikTok:    {Key: "createTime", Format: LocalISO},
}

// Tier reports which source produced an anchor.
type Tier int

const (
	TierPlatformMetadata Tier = iota + 1
	TierPublishedDate
	TierCreatedAt
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierPlatformMetadata:
		return "platform_metadata"
	case TierPublishedDate:
		return "published_date"
	case TierCreatedAt:
		return "created_at"
	case TierFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Resolution is a resolved anchor instant and the tier it came from.
type Resolution struct {
	At   time.Time
	Tier Tier
}

type Resolver struct {
	rules       map[string]Rule
	fallbackAge time.Duration
	logger      *slog.Logger
}

type Option func(*Resolver)

// WithRules replaces the rule table.
func WithRules(rules map[string]Rule) Option {
	return func(r *Resolver) {
		r.rules = rules
	}
}

// WithFallbackAge sets the age of the last-resort anchor.
func WithFallbackAge(age time.Duration) Option {
	return func(r *Resolver) {
		if age > 0 {
			r.fallbackAge = age
		}
	}
}

func NewResolver(logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		rules:       DefaultRules,
		fallbackAge: DefaultFallbackAge,
		logger:      logger.With("component", "publish_date_resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the anchor for ref. latest is the most recent sample of the
// item and may be nil.
func (r *Resolver) Resolve(ref domain.ContentRef, latest *domain.MetricSample, now time.Time) Resolution {
	if at, ok := r.fromMetadata(ref, latest); ok {
		return Resolution{At: at, Tier: TierPlatformMetadata}
	}
	if ref.PublishedAt != nil && !ref.PublishedAt.IsZero() {
		return Resolution{At: *ref.PublishedAt, Tier: TierPublishedDate}
	}
	if ref.CreatedAt != nil && !ref.CreatedAt.IsZero() {
		return Resolution{At: *ref.CreatedAt, Tier: TierCreatedAt}
	}
	return Resolution{At: now.Add(-r.fallbackAge), Tier: TierFallback}
}

func (r *Resolver) fromMetadata(ref domain.ContentRef, latest *domain.MetricSample) (time.Time, bool) {
	if latest == nil || len(latest.PlatformSpecific) == 0 {
		return time.Time{}, false
	}

	rule, ok := r.rules[domain.NormalizePlatform(ref.Platform)]
	if !ok {
		return time.Time{}, false
	}

	value, ok := latest.PlatformSpecific[rule.Key]
	if !ok || value == nil {
		return time.Time{}, false
	}

	at, err := Parse(value, rule.Format)
	if err != nil {
		r.logger.Warn("failed to parse platform publish date",
			"content_id", ref.ContentID,
			"platform", ref.Platform,
			"key", rule.Key,
			"format", rule.Format.String(),
			"error", err,
		)
		return time.Time{}, false
	}
	return at, true
}

// Parse decodes a metadata value in the given format. Epoch values are
// accepted as any JSON number representation or a decimal string, since
// samples read back from storage lose their Go types.
func Parse(value any, format Format) (time.Time, error) {
	switch format {
	case RFC3339:
		s, ok := value.(string)
		if !ok {
			return time.Time{}, fmt.Errorf("expected string, got %T", value)
		}
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
		if err != nil {
			return time.Time{}, fmt.Errorf("parse rfc3339: %w", err)
		}
		return t, nil

	case EpochMillis:
		ms, err := epochMillis(value)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).UTC(), nil

	case LocalISO:
		s, ok := value.(string)
		if !ok {
			return time.Time{}, fmt.Errorf("expected string, got %T", value)
		}
		t, err := time.ParseInLocation(localISOLayout, strings.TrimSpace(s), time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse local iso: %w", err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unknown format %d", format)
}

func epochMillis(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("parse epoch millis: %w", err)
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse epoch millis: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected number, got %T", value)
}
