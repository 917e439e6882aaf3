package flip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/flipmagic/brand-onboarder/internal/metrics"
)

// OnboardingPath is the outbound brand-onboarding endpoint.
const OnboardingPath = "/shop/admin/brands/onboarding/outbound/v1"

// browserHeaders is the fixed client-identity header set the platform
// expects on onboarding calls.
var browserHeaders = map[string]string{
	"accept":             "application/json, text/plain, */*",
	"accept-language":    "en-US,en;q=0.9",
	"content-type":       "application/json",
	"origin":             "https://flipmagic.flip.shop",
	"priority":           "u=1, i",
	"referer":            "https://flipmagic.flip.shop/",
	"sec-ch-ua":          `"Chromium";v="130", "Google Chrome";v="130", "Not?A_Brand";v="99"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"macOS"`,
	"sec-fetch-dest":     "empty",
	"sec-fetch-mode":     "cors",
	"sec-fetch-site":     "cross-site",
	"user-agent":         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
}

// Client wraps low-level HTTP communication with the Flip admin API.
type Client struct {
	logger  *zap.Logger
	baseURL string
	http    *http.Client
}

// NewClient constructs a Flip API client. A non-positive timeout falls back
// to 15s; outbound calls are never unbounded.
func NewClient(logger *zap.Logger, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// CreateBrand submits one onboarding payload with the given bearer token.
// A non-2xx response comes back as *UpstreamError carrying the extracted
// message; transport failures are returned as-is.
func (c *Client) CreateBrand(ctx context.Context, token string, payload BrandPayload) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + OnboardingPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.IncFlipRequest(OnboardingPath, http.MethodPost, "transport_error")
		c.logger.Error("flip.onboarding_request_failed",
			zap.String("brand", payload.Name),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, _ := io.ReadAll(resp.Body)
	metrics.ObserveDuration(metrics.FlipRequestDuration, start, OnboardingPath, http.MethodPost)
	metrics.IncFlipRequest(OnboardingPath, http.MethodPost, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("flip.onboarding_rejected",
			zap.String("brand", payload.Name),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &UpstreamError{Status: resp.StatusCode, Message: ExtractMessage(string(body))}
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("flip.onboarding_decode_failed",
			zap.String("brand", payload.Name),
			zap.Error(err))
		return nil, fmt.Errorf("decode onboarding response: %w", err)
	}

	c.logger.Info("flip.onboarding_accepted",
		zap.String("brand", payload.Name),
		zap.Int("status", resp.StatusCode))

	return result, nil
}
