package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
	"finnhub_extractor/internal/shared/ratelimiter"
	"finnhub_extractor/internal/shared/timeconv"
)

// multiLabel names the output file when a run requests more than one interval.
const multiLabel = "multi"

// TickerSource turns a ticker file into an ordered symbol list.
type TickerSource interface {
	Parse(fileType entity.TickerFileType, path string) ([]string, error)
}

// SheetWriter persists one bar table as one sheet of a per-symbol file.
type SheetWriter interface {
	Write(symbol, interval string, table entity.BarTable, path string) entity.Event
}

// RunLedger records the outcome of every (symbol, interval) unit.
type RunLedger interface {
	Record(ctx context.Context, rec entity.RunRecord) error
}

// ExtractUsecase drives an extraction run: for every symbol and every requested
// interval it fetches or resamples a bar table and hands it to the SheetWriter.
type ExtractUsecase struct {
	tickers    TickerSource
	fetcher    *SeriesFetcher
	writer     SheetWriter
	ledger     RunLedger
	newLimiter ratelimiter.Factory
	now        func() time.Time
}

// NewExtractUsecase creates an ExtractUsecase. ledger may be nil.
func NewExtractUsecase(tickers TickerSource, market MarketRepository, writer SheetWriter, ledger RunLedger, newLimiter ratelimiter.Factory) *ExtractUsecase {
	return &ExtractUsecase{
		tickers:    tickers,
		fetcher:    NewSeriesFetcher(market),
		writer:     writer,
		ledger:     ledger,
		newLimiter: newLimiter,
		now:        time.Now,
	}
}

// run holds the state that lives for a single Run call.
type run struct {
	id      string
	params  entity.RunParams
	limiter ratelimiter.RateLimiterInterface
	label   string
	summary entity.RunSummary
}

// Run executes one extraction. Only a failure to obtain the symbol list or a
// cancelled ctx is returned; every per-unit failure is logged, recorded and skipped.
func (u *ExtractUsecase) Run(ctx context.Context, params entity.RunParams) (entity.RunSummary, error) {
	id := u.now().UTC().Format("20060102T150405.000")

	symbols, err := u.tickers.Parse(params.FileType, params.TickerPath)
	if err != nil {
		return entity.RunSummary{RunID: id}, fmt.Errorf("load tickers: %w", err)
	}

	r := &run{
		id:      id,
		params:  params,
		limiter: u.newLimiter(params.CallBudget, params.BudgetWindow),
		label:   FileLabel(params.Intervals),
		summary: entity.RunSummary{RunID: id, Symbols: len(symbols)},
	}

	slog.Info("extraction started", "run", id, "symbols", len(symbols), "intervals", params.Intervals)
	for _, symbol := range symbols {
		if err := u.extractSymbol(ctx, r, symbol); err != nil {
			slog.Warn("extraction interrupted", "run", id, "symbol", symbol, "error", err)
			return r.summary, err
		}
	}
	slog.Info("extraction finished", "run", id,
		"written", r.summary.Written, "skipped", r.summary.Skipped, "failed", r.summary.Failed)

	return r.summary, nil
}

// extractSymbol processes every interval of one symbol in the requested order.
// firstBase keeps the first successfully fetched base table for derived intervals.
// The returned error is always ctx's.
func (u *ExtractUsecase) extractSymbol(ctx context.Context, r *run, symbol string) error {
	var firstBase entity.BarTable
	path := filepath.Join(r.params.TargetDir, FileName(symbol, r.label, r.params.From, r.params.To))

	for _, interval := range r.params.Intervals {
		if err := ctx.Err(); err != nil {
			return err
		}
		var table entity.BarTable

		if r.params.IsDerived(interval) {
			if firstBase == nil {
				slog.Info("conditions not met to resample data, skipping", "symbol", symbol, "interval", interval)
				u.record(ctx, r, symbol, interval, path, entity.OutcomeSkipped, 0,
					entity.NewEvent(entity.Unknown, "no base table to resample"))
				continue
			}
			derived, err := Resample(firstBase, interval)
			if err != nil {
				slog.Error("failed to resample", "symbol", symbol, "interval", interval, "error", err)
				u.record(ctx, r, symbol, interval, path, entity.OutcomeFailed, 0,
					entity.NewEvent(entity.ResponseFormat, err.Error()))
				continue
			}
			table = derived
		} else {
			if err := r.limiter.WaitIfNeeded(ctx); err != nil {
				return err
			}
			fetched, err := u.fetcher.Fetch(ctx, symbol, interval, r.params.From, r.params.To)
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err != nil {
				slog.Warn("no data to write", "symbol", symbol, "interval", interval, "error", err)
				u.record(ctx, r, symbol, interval, path, entity.OutcomeSkipped, 0, eventOf(err))
				continue
			}
			if firstBase == nil {
				firstBase = fetched.Clone()
			}
			table = fetched
		}

		ev := u.writer.Write(symbol, interval, table, path)
		if err := ev.AsError(); err != nil {
			slog.Error("failed to write sheet", "symbol", symbol, "interval", interval, "path", path, "error", err)
			u.record(ctx, r, symbol, interval, path, entity.OutcomeFailed, 0, ev)
			continue
		}
		slog.Info(ev.Description, "symbol", symbol, "interval", interval, "rows", len(table), "path", path)
		u.record(ctx, r, symbol, interval, path, entity.OutcomeWritten, len(table), ev)
	}
	return nil
}

// record counts the outcome and stores it in the ledger when one is configured.
func (u *ExtractUsecase) record(ctx context.Context, r *run, symbol, interval, path string, o entity.Outcome, rows int, ev entity.Event) {
	r.summary.Add(o)
	if u.ledger == nil {
		return
	}
	rec := entity.RunRecord{
		RunID:       r.id,
		Symbol:      symbol,
		Interval:    interval,
		Outcome:     o,
		Rows:        rows,
		Path:        path,
		EventType:   ev.Type,
		Description: ev.Description,
		CreatedAt:   u.now(),
	}
	if err := u.ledger.Record(ctx, rec); err != nil {
		// the ledger is bookkeeping only; the run goes on
		slog.Warn("failed to record run outcome", "symbol", symbol, "interval", interval, "error", err)
	}
}

// eventOf extracts the entity.Event carried by err.
func eventOf(err error) entity.Event {
	var ev entity.Event
	if errors.As(err, &ev) {
		return ev
	}
	return entity.NewEvent(entity.Unknown, err.Error())
}

// FileLabel is the interval part of the output file name.
func FileLabel(intervals []string) string {
	if len(intervals) == 1 {
		return intervals[0]
	}
	return multiLabel
}

// FileName composes <symbol>_<label>_<from>_<to>.xlsx.
func FileName(symbol, label, from, to string) string {
	return symbol + "_" + label + "_" + timeconv.Compact(from) + "_" + timeconv.Compact(to) + ".xlsx"
}
