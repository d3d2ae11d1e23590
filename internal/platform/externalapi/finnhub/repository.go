package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
	"finnhub_extractor/internal/feature/extraction/usecase"
	"finnhub_extractor/internal/platform/externalapi/finnhub/dto"
)

// TokenHeader carries the API key on every request.
const TokenHeader = "X-Finnhub-Token"

// FinnhubMarket はFinnhub外部APIからローソク足データを取得するMarketRepository実装です。
type FinnhubMarket struct {
	cfg    Config
	client *http.Client
}

// FinnhubMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*FinnhubMarket)(nil)

// NewFinnhubMarket creates a FinnhubMarket. The client is expected to add the
// token header (see platform/http.NewHTTPClient).
func NewFinnhubMarket(cfg Config, client *http.Client) *FinnhubMarket {
	return &FinnhubMarket{cfg: cfg, client: client}
}

// StockCandles calls GET /stock/candle and returns the payload as received.
// Validation of the payload is left to the caller.
func (f *FinnhubMarket) StockCandles(ctx context.Context, symbol, interval string, from, to int64) (*entity.CandleResponse, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("resolution", interval)
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(to, 10))

	u := fmt.Sprintf("%s/stock/candle?%s", f.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("finnhub http %d", res.StatusCode)
	}

	var body dto.CandleResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode candles for %s: %w", symbol, err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("finnhub: %s", body.Error)
	}

	return &entity.CandleResponse{
		Status: body.Status,
		Open:   body.Open,
		High:   body.High,
		Low:    body.Low,
		Close:  body.Close,
		Volume: body.Volume,
		Time:   body.Time,
	}, nil
}
