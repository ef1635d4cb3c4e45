package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"content_metrics/internal/domain"
)

// ClientConfig holds the HTTP settings shared by all adapters.
type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	UserAgent      string
}

// Classifier maps a non-200 response onto a fetch error kind. It reports false
// when it has no opinion and the default mapping should apply.
type Classifier func(status int, body []byte) (domain.FetchErrorKind, bool)

// HTTPClient is the resty-backed transport used by adapters. With MaxAttempts
// of 1 every call issues exactly one request.
type HTTPClient struct {
	client   *resty.Client
	platform string
	classify Classifier
}

func NewHTTPClient(platform string, cfg ClientConfig, classify Classifier) *HTTPClient {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "ContentMetrics/1.0"
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	if cfg.MaxAttempts > 1 {
		client.
			SetRetryCount(cfg.MaxAttempts - 1).
			SetRetryWaitTime(cfg.InitialBackoff).
			SetRetryMaxWaitTime(cfg.MaxBackoff).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return r.StatusCode() >= http.StatusInternalServerError
			})
	}

	return &HTTPClient{client: client, platform: platform, classify: classify}
}

// Get issues a GET and returns the body of a 200 response.
func (c *HTTPClient) Get(ctx context.Context, contentID, path string, query map[string]string, headers map[string]string) ([]byte, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetHeaders(headers)

	resp, err := req.Get(path)
	return c.result(contentID, resp, err)
}

// PostJSON issues a POST with a JSON body and returns the body of a 200 response.
func (c *HTTPClient) PostJSON(ctx context.Context, contentID, path string, query map[string]string, headers map[string]string, body any) ([]byte, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetHeaders(headers).
		SetHeader("Content-Type", "application/json").
		SetBody(body)

	resp, err := req.Post(path)
	return c.result(contentID, resp, err)
}

func (c *HTTPClient) result(contentID string, resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, domain.NewFetchError(domain.NetworkFailure, c.platform, contentID,
			fmt.Errorf("execute request: %w", err))
	}

	if resp.StatusCode() == http.StatusOK {
		return resp.Body(), nil
	}

	kind := c.kindFor(resp.StatusCode(), resp.Body())
	return nil, domain.NewFetchError(kind, c.platform, contentID,
		fmt.Errorf("unexpected status: %d", resp.StatusCode()))
}

func (c *HTTPClient) kindFor(status int, body []byte) domain.FetchErrorKind {
	if c.classify != nil {
		if kind, ok := c.classify(status, body); ok {
			return kind
		}
	}
	return DefaultKind(status, body)
}

// DefaultKind is the status mapping used when an adapter has no classifier
// or its classifier abstains.
func DefaultKind(status int, body []byte) domain.FetchErrorKind {
	switch {
	case status == http.StatusNotFound:
		return domain.NotFound
	case status == http.StatusTooManyRequests:
		return domain.QuotaExceeded
	case status == http.StatusForbidden && strings.Contains(strings.ToLower(string(body)), "quota"):
		return domain.QuotaExceeded
	default:
		return domain.NetworkFailure
	}
}

// Decode unmarshals a provider body, reporting failures as ParseFailure.
func Decode(raw *RawMetrics, v any) error {
	if err := json.Unmarshal(raw.Body, v); err != nil {
		return domain.NewFetchError(domain.ParseFailure, raw.Platform, raw.PlatformContentID,
			fmt.Errorf("decode response: %w", err))
	}
	return nil
}
