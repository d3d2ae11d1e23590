// Package di provides dependency injection factories for creating application components.
package di

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"finnhub_extractor/internal/feature/extraction/usecase"
	"finnhub_extractor/internal/platform/cache"
	"finnhub_extractor/internal/platform/externalapi/finnhub"
	infrahttp "finnhub_extractor/internal/platform/http"
)

// NewMarket creates a fully configured FinnhubMarket with HTTP client.
// When rdb is non-nil the market is wrapped in the Redis candle cache.
func NewMarket(cfg finnhub.Config, rdb *redis.Client, ttl time.Duration) usecase.MarketRepository {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, map[string]string{
		finnhub.TokenHeader: cfg.APIKey,
	})
	market := finnhub.NewFinnhubMarket(cfg, httpClient)
	if rdb == nil {
		return market
	}
	return cache.NewCachingMarketRepository(rdb, ttl, market, cache.DefaultNamespace)
}

// NewDownloadClient creates the HTTP client used for ticker file downloads.
func NewDownloadClient() *http.Client {
	return infrahttp.NewHTTPClient(2*time.Minute, nil)
}
