// Package timeseries reconciles sparse real observations with a deterministic
// growth-curve extrapolation into a gapless daily series.
package timeseries

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"content_metrics/internal/domain"
)

const (
	EarlyGrowthRate  = 0.15
	SteadyGrowthRate = 0.02
	// EarlyWindowDays is the number of days after the anchor that use EarlyGrowthRate.
	EarlyWindowDays = 7

	BaseViews    = 10
	BaseLikes    = 1
	BaseComments = 0

	jitterMin    = 0.9
	jitterSpread = 0.2
	jitterStream = 0x9e3779b97f4a7c15
)

// Base is the rolling reference a synthetic point compounds from.
type Base struct {
	Views    int64
	Likes    int64
	Comments int64
}

// InitialBase is the base before any real observation.
var InitialBase = Base{Views: BaseViews, Likes: BaseLikes, Comments: BaseComments}

// day is one observed calendar day. A nil counter was not reported and does
// not move the base.
type day struct {
	views    *int64
	likes    *int64
	comments *int64
}

// Builder produces one point per calendar day in its location. It is
// stateless and safe for concurrent use.
type Builder struct {
	loc *time.Location
}

func NewBuilder(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{loc: loc}
}

func (b *Builder) Location() *time.Location {
	return b.loc
}

// DayOf returns the calendar date of t in the builder's location.
func (b *Builder) DayOf(t time.Time) string {
	return t.In(b.loc).Format(domain.DateLayout)
}

// FromSamples builds a content-scope series. When several samples fall on the
// same day the one retrieved last is used.
func (b *Builder) FromSamples(samples []domain.MetricSample, anchor, now time.Time) []domain.SeriesPoint {
	sorted := make([]domain.MetricSample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RetrievedAt.Before(sorted[j].RetrievedAt)
	})

	observed := make(map[string]day, len(sorted))
	for _, s := range sorted {
		observed[b.DayOf(s.RetrievedAt)] = day{
			views:    s.Views,
			likes:    s.Likes,
			comments: s.Comments,
		}
	}
	return b.build(observed, anchor, now)
}

// FromAggregates builds a user or platform scope series from per-day sums.
// Days present in aggs are emitted as-is; only missing days are synthesized.
func (b *Builder) FromAggregates(aggs []domain.DayAggregate, anchor, now time.Time) []domain.SeriesPoint {
	observed := make(map[string]day, len(aggs))
	for _, a := range aggs {
		observed[a.Date] = day{
			views:    domain.Int64(a.Views),
			likes:    domain.Int64(a.Likes),
			comments: domain.Int64(a.Comments),
		}
	}
	return b.build(observed, anchor, now)
}

func (b *Builder) build(observed map[string]day, anchor, now time.Time) []domain.SeriesPoint {
	start := b.StartOfDay(anchor)
	end := b.StartOfDay(now)
	if start.After(end) {
		return []domain.SeriesPoint{}
	}

	points := make([]domain.SeriesPoint, 0, b.daysBetween(start, end)+1)
	base := InitialBase

	for n := 0; ; n++ {
		current := start.AddDate(0, 0, n)
		if current.After(end) {
			break
		}
		date := current.Format(domain.DateLayout)

		obs, ok := observed[date]
		if !ok {
			points = append(points, Synthesize(base, n, date))
			continue
		}

		points = append(points, domain.SeriesPoint{
			Date:     date,
			Views:    domain.ValueOr(obs.views, 0),
			Likes:    domain.ValueOr(obs.likes, 0),
			Comments: domain.ValueOr(obs.comments, 0),
		})
		base = Base{
			Views:    domain.ValueOr(obs.views, base.Views),
			Likes:    domain.ValueOr(obs.likes, base.Likes),
			Comments: domain.ValueOr(obs.comments, base.Comments),
		}
	}
	return points
}

// StartOfDay returns midnight of t's calendar day in the builder's location.
func (b *Builder) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(b.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, b.loc)
}

func (b *Builder) daysBetween(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// GrowthRate returns the daily growth applied daysSinceAnchor days after the anchor.
func GrowthRate(daysSinceAnchor int) float64 {
	if daysSinceAnchor < EarlyWindowDays {
		return EarlyGrowthRate
	}
	return SteadyGrowthRate
}

// Synthesize extrapolates one day: base × (1+growth)^daysSinceAnchor × Jitter(date).
func Synthesize(base Base, daysSinceAnchor int, date string) domain.SeriesPoint {
	factor := math.Pow(1+GrowthRate(daysSinceAnchor), float64(daysSinceAnchor)) * Jitter(date)

	return domain.SeriesPoint{
		Date:      date,
		Views:     scale(base.Views, factor),
		Likes:     scale(base.Likes, factor),
		Comments:  scale(base.Comments, factor),
		Synthetic: true,
	}
}

// scale saturates at math.MaxInt64 once the product leaves the int64 range.
func scale(v int64, factor float64) int64 {
	if v == 0 {
		return 0
	}
	x := math.Round(float64(v) * factor)
	if math.IsNaN(x) || x >= math.MaxInt64 {
		return math.MaxInt64
	}
	if x < 0 {
		return 0
	}
	return int64(x)
}

// Jitter returns a factor in [0.9, 1.1) derived only from date.
func Jitter(date string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(date))

	r := rand.New(rand.NewPCG(h.Sum64(), jitterStream))
	return jitterMin + r.Float64()*jitterSpread
}
