// Package tiktok implements the metrics adapter for the TikTok video query API.
package tiktok

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"content_metrics/internal/domain"
	"content_metrics/internal/provider"
)

const (
	defaultBaseURL = "https://open.tiktokapis.com"
	queryPath      = "/v2/video/query/"
	queryFields    = "id,create_time,view_count,like_count,comment_count,share_count"

	// CreateTimeLayout is ISO-8601 without a zone marker; values are UTC.
	CreateTimeLayout = "2006-01-02T15:04:05"
)

// Platform-specific keys written into MetricSample.PlatformSpecific.
const (
	KeyCreateTime   = "createTime"
	KeyPlayCount    = "playCount"
	KeyForwardCount = "forwardCount"
)

const (
	codeOK            = "ok"
	codeRateLimit     = "rate_limit_exceeded"
	codeInvalidParams = "invalid_params"
)

// Config holds TikTok adapter configuration.
type Config struct {
	AccessToken string
	provider.ClientConfig
}

// Adapter implements provider.Adapter for TikTok videos.
type Adapter struct {
	http        *provider.HTTPClient
	accessToken string
	logger      *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Adapter{
		http:        provider.NewHTTPClient(domain.PlatformTikTok, cfg.ClientConfig, nil),
		accessToken: cfg.AccessToken,
		logger:      logger.With("platform", domain.PlatformTikTok),
	}
}

func (a *Adapter) Platform() string {
	return domain.PlatformTikTok
}

// Fetch queries one video by id.
func (a *Adapter) Fetch(ctx context.Context, videoID string) (*provider.RawMetrics, error) {
	body, err := a.http.PostJSON(ctx, videoID, queryPath,
		map[string]string{"fields": queryFields},
		map[string]string{"Authorization": "Bearer " + a.accessToken},
		queryRequest{Filters: queryFilters{VideoIDs: []string{videoID}}},
	)
	if err != nil {
		return nil, err
	}

	return &provider.RawMetrics{
		Platform:          domain.PlatformTikTok,
		PlatformContentID: videoID,
		Body:              body,
	}, nil
}

// Normalize maps a queried video onto canonical counters.
func (a *Adapter) Normalize(raw *provider.RawMetrics) (*domain.MetricSample, error) {
	var resp queryResponse
	if err := provider.Decode(raw, &resp); err != nil {
		return nil, err
	}

	switch resp.Error.Code {
	case "", codeOK:
	case codeRateLimit:
		return nil, domain.NewFetchError(domain.QuotaExceeded, domain.PlatformTikTok, raw.PlatformContentID,
			errors.New(resp.Error.Message))
	case codeInvalidParams:
		return nil, domain.NewFetchError(domain.NotFound, domain.PlatformTikTok, raw.PlatformContentID,
			errors.New(resp.Error.Message))
	default:
		return nil, domain.NewFetchError(domain.ParseFailure, domain.PlatformTikTok, raw.PlatformContentID,
			fmt.Errorf("api error %s: %s", resp.Error.Code, resp.Error.Message))
	}

	var v *video
	for i := range resp.Data.Videos {
		if resp.Data.Videos[i].ID == raw.PlatformContentID {
			v = &resp.Data.Videos[i]
			break
		}
	}
	if v == nil {
		return nil, domain.NewFetchError(domain.NotFound, domain.PlatformTikTok, raw.PlatformContentID,
			errors.New("video not found"))
	}

	err := provider.CheckCounts(domain.PlatformTikTok, raw.PlatformContentID,
		provider.Count{Name: "view_count", Value: v.ViewCount},
		provider.Count{Name: "like_count", Value: v.LikeCount},
		provider.Count{Name: "comment_count", Value: v.CommentCount},
		provider.Count{Name: "share_count", Value: v.ShareCount},
	)
	if err != nil {
		return nil, err
	}

	specific := map[string]any{}
	if v.CreateTime > 0 {
		specific[KeyCreateTime] = time.Unix(v.CreateTime, 0).UTC().Format(CreateTimeLayout)
	}
	if v.ViewCount != nil {
		specific[KeyPlayCount] = *v.ViewCount
	}
	if v.ShareCount != nil {
		specific[KeyForwardCount] = *v.ShareCount
	}

	return &domain.MetricSample{
		Platform:          domain.PlatformTikTok,
		PlatformContentID: raw.PlatformContentID,
		Counters: domain.Counters{
			Views:    v.ViewCount,
			Likes:    provider.LikesOrEstimate(v.LikeCount, v.ViewCount),
			Comments: v.CommentCount,
			Shares:   v.ShareCount,
		},
		PlatformSpecific: specific,
	}, nil
}
