// Package usecase implements the extraction pipeline: fetching, resampling and
// dispatching bar tables to the sheet writer.
package usecase

import (
	"context"
	"sort"
	"time"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
	"finnhub_extractor/internal/shared/timeconv"
)

// MarketRepository is the provider capability returning raw candle payloads.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	StockCandles(ctx context.Context, symbol, interval string, from, to int64) (*entity.CandleResponse, error)
}

// SeriesFetcher issues one provider call per (symbol, interval) and normalizes the answer.
type SeriesFetcher struct {
	market MarketRepository
}

// NewSeriesFetcher creates a SeriesFetcher.
func NewSeriesFetcher(market MarketRepository) *SeriesFetcher {
	return &SeriesFetcher{market: market}
}

// Fetch returns the bars of symbol at interval between fromText and toText,
// sorted ascending. Every failure comes back as an entity.Event.
func (f *SeriesFetcher) Fetch(ctx context.Context, symbol, interval, fromText, toText string) (entity.BarTable, error) {
	from := timeconv.ToEpochSeconds(fromText)
	to := timeconv.ToEpochSeconds(toText)
	if from == 0 || to == 0 {
		return nil, entity.Eventf(entity.DateConversion,
			"dates could not be converted to epoch for symbol [%s:%s]", symbol, interval)
	}

	res, err := f.market.StockCandles(ctx, symbol, interval, from, to)
	if err != nil {
		return nil, entity.Eventf(entity.Unknown, "could not download [%s:%s]", symbol, interval).Wrap(err)
	}
	return toBarTable(symbol, interval, res)
}

// toBarTable validates the payload and converts it to a sorted BarTable.
func toBarTable(symbol, interval string, res *entity.CandleResponse) (entity.BarTable, error) {
	if res == nil || res.Status == "" {
		return nil, entity.Eventf(entity.ResponseFormat, "empty response for [%s:%s]", symbol, interval)
	}
	if res.Status != "ok" {
		return nil, entity.Eventf(entity.ResponseFormat, "status %q for [%s:%s]", res.Status, symbol, interval)
	}

	n := len(res.Time)
	if n == 0 {
		return nil, entity.Eventf(entity.ResponseFormat, "no bars for [%s:%s]", symbol, interval)
	}
	if len(res.Open) != n || len(res.High) != n || len(res.Low) != n || len(res.Close) != n || len(res.Volume) != n {
		return nil, entity.Eventf(entity.ResponseFormat, "column lengths differ for [%s:%s]", symbol, interval)
	}

	table := make(entity.BarTable, 0, n)
	for i := 0; i < n; i++ {
		table = append(table, entity.Bar{
			Time:   time.Unix(res.Time[i], 0).UTC(),
			Open:   res.Open[i],
			High:   res.High[i],
			Low:    res.Low[i],
			Close:  res.Close[i],
			Volume: res.Volume[i],
		})
	}
	sort.SliceStable(table, func(i, j int) bool { return table[i].Time.Before(table[j].Time) })
	return table, nil
}
