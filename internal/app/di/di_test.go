package di

import (
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finnhub_extractor/internal/platform/cache"
	"finnhub_extractor/internal/platform/externalapi/finnhub"
)

func TestNewMarket(t *testing.T) {
	t.Parallel()

	cfg := finnhub.Config{APIKey: "key", BaseURL: finnhub.DefaultBaseURL, Timeout: time.Second}

	assert.IsType(t, &finnhub.FinnhubMarket{}, NewMarket(cfg, nil, time.Hour))

	rdb, _ := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()
	assert.IsType(t, &cache.CachingMarketRepository{}, NewMarket(cfg, rdb, time.Hour))
}

func TestNewExtractUsecase(t *testing.T) {
	t.Parallel()

	market := NewMarket(finnhub.Config{BaseURL: finnhub.DefaultBaseURL, Timeout: time.Second}, nil, 0)
	assert.NotNil(t, NewExtractUsecase(market, nil))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NotNil(t, NewExtractUsecase(market, db))
}

func TestNewDownloadClient(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2*time.Minute, NewDownloadClient().Timeout)
}
