// Package youtube implements the metrics adapter for the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"content_metrics/internal/domain"
	"content_metrics/internal/provider"
)

const defaultBaseURL = "https://www.googleapis.com"

// Platform-specific keys written into MetricSample.PlatformSpecific.
const (
	KeyPublishedAt   = "publishedAt" // ISO-8601 with zone, e.g. 2024-01-05T10:00:00Z
	KeyFavoriteCount = "favoriteCount"
	KeyChannelID     = "channelId"
	KeyChannelTitle  = "channelTitle"
	KeyTitle         = "title"
)

// Config holds YouTube adapter configuration.
type Config struct {
	APIKey string
	provider.ClientConfig
}

// Adapter implements provider.Adapter for YouTube videos.
type Adapter struct {
	http   *provider.HTTPClient
	apiKey string
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Adapter{
		http:   provider.NewHTTPClient(domain.PlatformYouTube, cfg.ClientConfig, nil),
		apiKey: cfg.APIKey,
		logger: logger.With("platform", domain.PlatformYouTube),
	}
}

func (a *Adapter) Platform() string {
	return domain.PlatformYouTube
}

// Fetch reads statistics and snippet for one video.
func (a *Adapter) Fetch(ctx context.Context, videoID string) (*provider.RawMetrics, error) {
	body, err := a.http.Get(ctx, videoID, "/youtube/v3/videos", map[string]string{
		"part": "statistics,snippet",
		"id":   videoID,
		"key":  a.apiKey,
	}, nil)
	if err != nil {
		return nil, err
	}

	return &provider.RawMetrics{
		Platform:          domain.PlatformYouTube,
		PlatformContentID: videoID,
		Body:              body,
	}, nil
}

// Normalize maps video statistics onto canonical counters. YouTube reports no
// share count; a hidden like count is estimated from views.
func (a *Adapter) Normalize(raw *provider.RawMetrics) (*domain.MetricSample, error) {
	var resp videosResponse
	if err := provider.Decode(raw, &resp); err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 {
		return nil, domain.NewFetchError(domain.NotFound, domain.PlatformYouTube, raw.PlatformContentID,
			errors.New("video not found"))
	}

	item := resp.Items[0]
	views, err := provider.ParseCount(item.Statistics.ViewCount)
	if err != nil {
		return nil, a.parseErr(raw, "viewCount", err)
	}
	likes, err := provider.ParseCount(item.Statistics.LikeCount)
	if err != nil {
		return nil, a.parseErr(raw, "likeCount", err)
	}
	comments, err := provider.ParseCount(item.Statistics.CommentCount)
	if err != nil {
		return nil, a.parseErr(raw, "commentCount", err)
	}

	if likes == nil {
		a.logger.Debug("like count hidden, estimating from views", "video_id", raw.PlatformContentID)
	}

	specific := map[string]any{
		KeyChannelID:    item.Snippet.ChannelID,
		KeyChannelTitle: item.Snippet.ChannelTitle,
		KeyTitle:        item.Snippet.Title,
	}
	if item.Snippet.PublishedAt != "" {
		specific[KeyPublishedAt] = item.Snippet.PublishedAt
	}
	if favorites, err := provider.ParseCount(item.Statistics.FavoriteCount); err == nil && favorites != nil {
		specific[KeyFavoriteCount] = *favorites
	}

	return &domain.MetricSample{
		Platform:          domain.PlatformYouTube,
		PlatformContentID: raw.PlatformContentID,
		Counters: domain.Counters{
			Views:    views,
			Likes:    provider.LikesOrEstimate(likes, views),
			Comments: comments,
		},
		PlatformSpecific: specific,
	}, nil
}

func (a *Adapter) parseErr(raw *provider.RawMetrics, field string, err error) error {
	return domain.NewFetchError(domain.ParseFailure, domain.PlatformYouTube, raw.PlatformContentID,
		fmt.Errorf("%s: %w", field, err))
}
