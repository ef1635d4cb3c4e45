// Package instagram implements the metrics adapter for the Instagram Graph API.
package instagram

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"content_metrics/internal/domain"
	"content_metrics/internal/provider"
)

const (
	defaultBaseURL = "https://graph.facebook.com"
	defaultVersion = "v19.0"

	mediaFields = "id,media_type,like_count,comments_count,timestamp," +
		"insights.metric(impressions,reach,saved,shares,video_views)"

	timestampLayout = "2006-01-02T15:04:05-0700"
)

// Platform-specific keys written into MetricSample.PlatformSpecific.
const (
	KeyTimestamp   = "timestamp" // publish time, epoch milliseconds
	KeyImpressions = "impressions"
	KeyReach       = "reach"
	KeySaves       = "saves"
	KeyMediaType   = "mediaType"
)

// Graph API error codes.
const (
	codeUnknownObject    = 100
	codeAppRateLimit     = 4
	codeUserRateLimit    = 17
	codeApplicationLimit = 32
	codeCallLimit        = 613
)

// Config holds Instagram adapter configuration.
type Config struct {
	AccessToken string
	APIVersion  string
	provider.ClientConfig
}

// Adapter implements provider.Adapter for Instagram media.
type Adapter struct {
	http        *provider.HTTPClient
	accessToken string
	version     string
	logger      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultVersion
	}
	return &Adapter{
		http:        provider.NewHTTPClient(domain.PlatformInstagram, cfg.ClientConfig, classify),
		accessToken: cfg.AccessToken,
		version:     cfg.APIVersion,
		logger:      logger.With("platform", domain.PlatformInstagram),
	}
}

func (a *Adapter) Platform() string {
	return domain.PlatformInstagram
}

// Fetch reads one media node with its insights in a single request.
func (a *Adapter) Fetch(ctx context.Context, mediaID string) (*provider.RawMetrics, error) {
	body, err := a.http.Get(ctx, mediaID, "/"+a.version+"/"+mediaID, map[string]string{
		"fields":       mediaFields,
		"access_token": a.accessToken,
	}, nil)
	if err != nil {
		return nil, err
	}

	return &provider.RawMetrics{
		Platform:          domain.PlatformInstagram,
		PlatformContentID: mediaID,
		Body:              body,
	}, nil
}

// Normalize maps a media node onto canonical counters. Views come from the
// video_views insight, falling back to impressions for non-video media.
func (a *Adapter) Normalize(raw *provider.RawMetrics) (*domain.MetricSample, error) {
	var resp mediaResponse
	if err := provider.Decode(raw, &resp); err != nil {
		return nil, err
	}
	if err := provider.CheckCounts(domain.PlatformInstagram, raw.PlatformContentID, resp.counts()...); err != nil {
		return nil, err
	}

	impressions := resp.metric("impressions")
	views := provider.FirstPresent(resp.metric("video_views"), impressions)

	specific := map[string]any{
		KeyMediaType: resp.MediaType,
	}
	if impressions != nil {
		specific[KeyImpressions] = *impressions
	}
	if reach := resp.metric("reach"); reach != nil {
		specific[KeyReach] = *reach
	}
	if saves := resp.metric("saved"); saves != nil {
		specific[KeySaves] = *saves
	}
	if resp.Timestamp != "" {
		published, err := time.Parse(timestampLayout, resp.Timestamp)
		if err != nil {
			a.logger.Warn("failed to parse media timestamp",
				"media_id", raw.PlatformContentID,
				"timestamp", resp.Timestamp,
			)
		} else {
			specific[KeyTimestamp] = published.UnixMilli()
		}
	}

	return &domain.MetricSample{
		Platform:          domain.PlatformInstagram,
		PlatformContentID: raw.PlatformContentID,
		Counters: domain.Counters{
			Views:    views,
			Likes:    provider.LikesOrEstimate(resp.LikeCount, views),
			Comments: resp.CommentsCount,
			Shares:   resp.metric("shares"),
		},
		PlatformSpecific: specific,
	}, nil
}

// classify maps Graph API error codes, which arrive with status 400, onto
// fetch error kinds.
func classify(status int, body []byte) (domain.FetchErrorKind, bool) {
	if status != http.StatusBadRequest && status != http.StatusForbidden {
		return "", false
	}

	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}

	switch resp.Error.Code {
	case codeUnknownObject:
		return domain.NotFound, true
	case codeAppRateLimit, codeUserRateLimit, codeApplicationLimit, codeCallLimit:
		return domain.QuotaExceeded, true
	}
	return "", false
}
