package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseSize bounds marketplace replies (10MB).
const maxResponseSize = 10 * 1024 * 1024

// HTTPConfig configures an HTTPAdapter.
type HTTPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// HTTPAdapter reads orders from a marketplace REST endpoint:
// GET {BaseURL}/orders?shop_id=..&since=RFC3339 with a bearer token.
type HTTPAdapter struct {
	platform   PlatformCode
	cfg        HTTPConfig
	httpClient *http.Client
}

// NewHTTPAdapter returns an adapter for platform. A zero timeout means 10s.
func NewHTTPAdapter(platform PlatformCode, cfg HTTPConfig) *HTTPAdapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPAdapter{
		platform:   platform,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Platform returns the platform this adapter serves.
func (a *HTTPAdapter) Platform() PlatformCode {
	return a.platform
}

type ordersReply struct {
	Orders []ExternalOrder `json:"orders"`
}

// FetchOrders returns the shop's orders created at or after since.
func (a *HTTPAdapter) FetchOrders(ctx context.Context, shopID string, since time.Time) ([]ExternalOrder, error) {
	if a.cfg.BaseURL == "" {
		return nil, ErrPlatformNotConfigured
	}

	q := url.Values{}
	q.Set("shop_id", shopID)
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+"/orders?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrPlatformRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if a.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.Token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPlatformRequestFailed, a.platform, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrPlatformAuthFailed, a.platform)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrPlatformRateLimited, a.platform)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s returned %d", ErrPlatformRequestFailed, a.platform, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrPlatformRequestFailed, err)
	}

	var reply ordersReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlatformInvalidReply, err)
	}
	for i, o := range reply.Orders {
		if o.ExternalID == "" {
			return nil, fmt.Errorf("%w: order %d has no id", ErrPlatformInvalidReply, i)
		}
	}
	return reply.Orders, nil
}
