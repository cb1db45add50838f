package pipeline

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"hdp-service/internal/cache"
	"hdp-service/internal/clinical"
)

// Predictor estimates the disease probability of a validated record.
type Predictor interface {
	Infer(ctx context.Context, rec *clinical.Record) (Prediction, error)
	Fingerprint() string
}

// CachedPredictor memoizes a Predictor in an in-process tier and, when
// configured, a shared Redis tier. Cache failures never fail a prediction.
type CachedPredictor struct {
	next   Predictor
	local  *cache.LocalCache
	remote *cache.RedisClient
	logger *zap.Logger
}

// NewCachedPredictor wraps next. Either tier may be nil.
func NewCachedPredictor(next Predictor, local *cache.LocalCache, remote *cache.RedisClient, logger *zap.Logger) *CachedPredictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedPredictor{
		next:   next,
		local:  local,
		remote: remote,
		logger: logger.With(zap.String("component", "prediction_cache")),
	}
}

func (c *CachedPredictor) Fingerprint() string {
	return c.next.Fingerprint()
}

func (c *CachedPredictor) Infer(ctx context.Context, rec *clinical.Record) (Prediction, error) {
	key := CacheKey(c.next.Fingerprint(), rec)

	if c.local != nil {
		if v, ok := c.local.Get(key); ok {
			if p, ok := v.(Prediction); ok {
				return p, nil
			}
		}
	}

	if c.remote != nil {
		var p Prediction
		found, err := c.remote.GetJSON(ctx, key, &p)
		if err != nil {
			c.logger.Warn("Redis lookup failed", zap.String("key", key), zap.Error(err))
		} else if found {
			c.storeLocal(key, p)
			return p, nil
		}
	}

	p, err := c.next.Infer(ctx, rec)
	if err != nil {
		return Prediction{}, err
	}

	c.storeLocal(key, p)
	if c.remote != nil {
		if err := c.remote.SetJSON(ctx, key, p); err != nil {
			c.logger.Warn("Redis store failed", zap.String("key", key), zap.Error(err))
		}
	}
	return p, nil
}

func (c *CachedPredictor) storeLocal(key string, p Prediction) {
	if c.local != nil {
		c.local.Set(key, p)
	}
}

// CacheKey namespaces the canonical record values by artifact fingerprint, so
// a new bundle never serves stale predictions.
func CacheKey(fingerprint string, rec *clinical.Record) string {
	values := rec.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "hdp:prediction:" + fingerprint + ":" + strings.Join(parts, "|")
}
