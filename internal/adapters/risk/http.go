package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
	"github.com/SscSPs/secure_banking_app/pkg/retry"
)

var _ portssvc.RiskScorer = (*HTTPScorer)(nil)

// HTTPConfig configures the remote model client.
type HTTPConfig struct {
	// URL receives a POST with the features as JSON and answers {"score": number}.
	URL string

	// Timeout bounds a single attempt. The caller's context bounds the whole call.
	Timeout time.Duration

	// RateLimit is requests per second across all callers. Zero disables limiting.
	RateLimit rate.Limit
	RateBurst int

	Retry retry.Config
}

// HTTPConfigDefaults returns defaults for a model service on the local network.
func HTTPConfigDefaults() HTTPConfig {
	return HTTPConfig{
		Timeout:   time.Second,
		RateLimit: 50,
		RateBurst: 10,
		Retry:     retry.DefaultConfig(),
	}
}

// HTTPScorer asks a remote model service for a score.
type HTTPScorer struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	retry   retry.Config
	logger  *slog.Logger
}

type scoreResponse struct {
	Score *float64 `json:"score"`
}

// NewHTTPScorer creates the client. A nil httpClient selects one with cfg.Timeout.
func NewHTTPScorer(cfg HTTPConfig, httpClient *http.Client, logger *slog.Logger) (*HTTPScorer, error) {
	if cfg.URL == "" {
		return nil, errors.New("risk scorer URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	return &HTTPScorer{
		url:     cfg.URL,
		client:  httpClient,
		limiter: limiter,
		retry:   cfg.Retry,
		logger:  logger.With("component", "risk-http"),
	}, nil
}

// Score posts the features and decodes the score. Transport errors, 429 and
// 5xx are retried; other statuses and malformed bodies are not.
func (s *HTTPScorer) Score(ctx context.Context, features domain.RiskFeatures) (float64, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return 0, fmt.Errorf("failed to encode features: %w", err)
	}

	onRetry := func(attempt int, err error, wait time.Duration) {
		s.logger.Warn("risk scorer call failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	}

	return retry.Do(ctx, s.retry, retry.NotPermanent, onRetry, func(ctx context.Context) (float64, error) {
		return s.attempt(ctx, body)
	})
}

func (s *HTTPScorer) attempt(ctx context.Context, body []byte) (float64, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return 0, retry.Permanent(fmt.Errorf("rate limiter: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, retry.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, retry.Permanent(err)
		}
		return 0, fmt.Errorf("risk scorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("risk scorer returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, retry.Permanent(fmt.Errorf("risk scorer returned status %d", resp.StatusCode))
	}

	var out scoreResponse
	dec := json.NewDecoder(io.LimitReader(resp.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return 0, retry.Permanent(fmt.Errorf("failed to decode risk score: %w", err))
	}
	if out.Score == nil {
		return 0, retry.Permanent(errors.New("risk score missing from response"))
	}
	return *out.Score, nil
}
