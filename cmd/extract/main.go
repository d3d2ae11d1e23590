package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"finnhub_extractor/internal/app/di"
	"finnhub_extractor/internal/feature/extraction/adapters"
	"finnhub_extractor/internal/feature/extraction/domain/entity"
	"finnhub_extractor/internal/feature/extraction/usecase"
	"finnhub_extractor/internal/platform/db"
	"finnhub_extractor/internal/platform/externalapi/finnhub"
	"finnhub_extractor/internal/platform/logger"
	infraredis "finnhub_extractor/internal/platform/redis"
	"finnhub_extractor/internal/platform/remotefile"
)

func main() {
	os.Exit(run())
}

func run() int {
	// .envを読み込む
	envErr := godotenv.Load(".env")
	logger.Setup()
	if envErr != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params, err := usecase.LoadRunParams()
	if err != nil {
		slog.Error("invalid run configuration", "error", err)
		return 1
	}

	fhCfg := finnhub.LoadConfig()
	if fhCfg.APIKey == "" {
		slog.Warn("FINNHUB_API_KEY is not set. Requests will be rejected by the provider.")
	}

	// 銘柄ファイルが無ければ取得する
	if src := os.Getenv("TICKER_SOURCE_URL"); src != "" {
		fetcher := remotefile.NewFetcher(di.NewDownloadClient())
		if err := fetcher.FetchIfAbsent(ctx, src, params.TickerPath); err != nil {
			slog.Error("error copying ticker file from remote server", "source", src, "error", err)
			return 1
		}
	}

	if err := os.MkdirAll(params.TargetDir, 0o755); err != nil {
		slog.Error("failed to create target directory", "dir", params.TargetDir, "error", err)
		return 1
	}

	// Redis
	var rdb *redisv9.Client
	redisCfg, err := infraredis.LoadConfigFromEnv()
	if err != nil {
		slog.Error("invalid cache configuration", "error", err)
		return 1
	}
	if tmp, err := infraredis.NewRedisClient(redisCfg); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Ledger
	var ledgerDB *gorm.DB
	if dbCfg := db.LoadConfigFromEnv(); dbCfg.Enabled() {
		if tmp, err := db.OpenLedgerDB(dbCfg); err != nil {
			slog.Warn("ledger unavailable. Running without run ledger.", "error", err)
		} else {
			ledgerDB = tmp
			defer func() {
				if sqlDB, err := ledgerDB.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()
		}
	}

	market := di.NewMarket(fhCfg, rdb, redisCfg.TTL)
	uc := di.NewExtractUsecase(market, ledgerDB)

	summary, err := uc.Run(ctx, params)
	if ledgerDB != nil {
		reportFailures(adapters.NewRunLedger(ledgerDB), summary.RunID)
	}
	if err != nil {
		slog.Error("extraction aborted", "run", summary.RunID, "error", err)
		return 1
	}

	slog.Info("extraction ok",
		"run", summary.RunID,
		"symbols", summary.Symbols,
		"written", summary.Written,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return 0
}

// runReader is the part of the run ledger used for the end-of-run report.
type runReader interface {
	FindRun(ctx context.Context, runID string) ([]entity.RunRecord, error)
}

// reportFailures logs every failed unit recorded for runID.
func reportFailures(ledger runReader, runID string) {
	// the run ctx may already be cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	recs, err := ledger.FindRun(ctx, runID)
	if err != nil {
		slog.Warn("failed to read run ledger", "run", runID, "error", err)
		return
	}
	for _, rec := range recs {
		if rec.Outcome != entity.OutcomeFailed {
			continue
		}
		slog.Warn("failed unit", "run", runID, "symbol", rec.Symbol, "interval", rec.Interval,
			"event", rec.EventType, "description", rec.Description)
	}
}
