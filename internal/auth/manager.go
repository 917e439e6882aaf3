package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/flipmagic/brand-onboarder/internal/metrics"
)

var (
	// ErrNoRefreshToken is returned when no refresh token is configured; no
	// network call is attempted in that case.
	ErrNoRefreshToken = errors.New("auth: refresh token is not configured")

	// ErrMalformedResponse is returned when a 2xx refresh response is missing
	// the expected data.auth fields. Nothing is cached.
	ErrMalformedResponse = errors.New("auth: refresh response missing data.auth fields")
)

const defaultTimeout = 15 * time.Second

// Config carries everything the Manager needs to talk to the refresh endpoint.
type Config struct {
	BaseURL      string
	RefreshPath  string
	RefreshToken string
	AppPlatform  string
	WebVersion   string
	DeviceFP     string
	Timeout      time.Duration
}

// Manager hands out valid access tokens, refreshing through the configured
// endpoint when the cached credential is missing or expired.
type Manager struct {
	logger *zap.Logger
	client *http.Client
	cache  *TokenCache
	cfg    Config

	now func() time.Time // swappable in tests
}

// NewManager creates a Manager around the given cache.
func NewManager(logger *zap.Logger, cache *TokenCache, cfg Config) *Manager {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Manager{
		logger: logger,
		client: &http.Client{Timeout: timeout},
		cache:  cache,
		cfg:    cfg,
		now:    time.Now,
	}
}

// AccessToken returns a valid bearer token, from cache when possible.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	if env, ok := m.cache.Load(); ok && env.Valid(m.now()) {
		return env.Data.Auth.AccessToken, nil
	}

	m.logger.Info("flip.token_refresh", zap.String("reason", "missing or expired"))

	env, err := m.refresh(ctx)
	if err != nil {
		metrics.IncTokenRefresh("error")
		return "", err
	}

	metrics.IncTokenRefresh("ok")
	m.cache.Store(env)
	return env.Data.Auth.AccessToken, nil
}

// refresh exchanges the long-lived refresh token for a new credential.
func (m *Manager) refresh(ctx context.Context) (*Envelope, error) {
	if m.cfg.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	payload := map[string]string{"refreshToken": m.cfg.RefreshToken}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := m.cfg.BaseURL + m.cfg.RefreshPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("App-Platform", m.cfg.AppPlatform)
	req.Header.Set("web-version", m.cfg.WebVersion)
	req.Header.Set("device-fp", m.cfg.DeviceFP)

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Error("flip.refresh_failed", zap.Error(err))
		return nil, fmt.Errorf("auth: refresh request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.logger.Error("flip.refresh_failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("auth: refresh returned %d", resp.StatusCode)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		m.logger.Error("flip.refresh_decode_failed", zap.Error(err))
		return nil, fmt.Errorf("auth: decode refresh response: %w", err)
	}

	if env.Data.Auth.AccessToken == "" || env.Data.Auth.ExpiresAt == 0 {
		m.logger.Error("flip.refresh_malformed", zap.String("body", string(body)))
		return nil, ErrMalformedResponse
	}

	m.logger.Info("flip.token_refreshed",
		zap.Int64("expires_at_ms", env.Data.Auth.ExpiresAt))

	return &env, nil
}
