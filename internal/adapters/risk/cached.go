package risk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/secure_banking_app/internal/core/domain"
	portssvc "github.com/SscSPs/secure_banking_app/internal/core/ports/services"
)

var _ portssvc.RiskScorer = (*CachedScorer)(nil)

// CacheConfig holds the score cache configuration.
type CacheConfig struct {
	// TTL is how long a cached score lives.
	TTL time.Duration
	// KeyPrefix is prepended to all cache keys.
	KeyPrefix string
}

// CacheConfigDefaults returns the default cache configuration.
func CacheConfigDefaults() CacheConfig {
	return CacheConfig{
		TTL:       10 * time.Minute,
		KeyPrefix: "bank:risk",
	}
}

// CachedScorer memoizes scores in Redis keyed by the feature vector.
// Redis failures are logged and the inner scorer is used directly.
type CachedScorer struct {
	inner     portssvc.RiskScorer
	client    redis.Cmdable
	ttl       time.Duration
	keyPrefix string
	logger    *slog.Logger
}

// NewCachedScorer wraps inner with a Redis cache.
func NewCachedScorer(inner portssvc.RiskScorer, client redis.Cmdable, cfg CacheConfig, logger *slog.Logger) (*CachedScorer, error) {
	if inner == nil {
		return nil, errors.New("inner scorer is required")
	}
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	defaults := CacheConfigDefaults()
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaults.KeyPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedScorer{
		inner:     inner,
		client:    client,
		ttl:       cfg.TTL,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger.With("component", "risk-cache"),
	}, nil
}

// key hashes the features formatted at fixed precision so equal inputs share a key.
func (c *CachedScorer) key(features domain.RiskFeatures) string {
	h := sha256.New()
	for _, x := range features.Vector() {
		h.Write([]byte(strconv.FormatFloat(x, 'f', 2, 64)))
		h.Write([]byte{'|'})
	}
	return fmt.Sprintf("%s:%s", c.keyPrefix, hex.EncodeToString(h.Sum(nil)))
}

func (c *CachedScorer) Score(ctx context.Context, features domain.RiskFeatures) (float64, error) {
	key := c.key(features)

	cached, err := c.client.Get(ctx, key).Float64()
	switch {
	case err == nil:
		return cached, nil
	case errors.Is(err, redis.Nil):
	default:
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		c.logger.Warn("risk cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	score, err := c.inner.Score(ctx, features)
	if err != nil {
		return 0, err
	}
	if score < 0 || score > 1 {
		return score, nil
	}

	if err := c.client.Set(ctx, key, strconv.FormatFloat(score, 'g', -1, 64), c.ttl).Err(); err != nil {
		c.logger.Warn("risk cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return score, nil
}
