// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
	"finnhub_extractor/internal/feature/extraction/usecase"
)

const (
	DefaultTTL       = 24 * time.Hour
	DefaultNamespace = "candles"
	statusOK         = "ok"
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying provider client.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "candles".
// A nil rdb disables caching.
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// StockCandles returns the provider payload, checking the cache first.
// Only complete "ok" payloads are cached so a failed or empty answer is asked again next run.
func (c *CachingMarketRepository) StockCandles(ctx context.Context, symbol, interval string, from, to int64) (*entity.CandleResponse, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.StockCandles(ctx, symbol, interval, from, to)
	}

	key := c.cacheKey(symbol, interval, from, to)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.CandleResponse
		if err := json.Unmarshal(b, &out); err == nil {
			slog.Debug("candle cache hit", "key", key)
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the provider
	out, err := c.inner.StockCandles(ctx, symbol, interval, from, to)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if out != nil && out.Status == statusOK && len(out.Time) > 0 {
		if b, err := json.Marshal(out); err == nil {
			if err := c.rdb.Set(ctx, key, b, c.ttlFor(to)).Err(); err != nil {
				slog.Warn("failed to cache candles", "key", key, "error", err)
			}
		}
	}

	return out, nil
}

// ttlFor shortens the TTL of ranges that are still open, since the provider
// keeps adding bars to them until the session closes.
func (c *CachingMarketRepository) ttlFor(to int64) time.Duration {
	now := c.now()
	if time.Unix(to, 0).Before(now) {
		return c.ttl
	}
	if d := TimeUntilSessionClose(now); d < c.ttl {
		return d
	}
	return c.ttl
}

// cacheKey generates a cache key for a specific query.
func (c *CachingMarketRepository) cacheKey(symbol, interval string, from, to int64) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d",
		c.namespace,
		safe(symbol),
		safe(interval),
		from,
		to,
	)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	// Simple escaping of characters that are problematic for Redis keys
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
