package di

import (
	"gorm.io/gorm"

	extractionadapters "finnhub_extractor/internal/feature/extraction/adapters"
	"finnhub_extractor/internal/feature/extraction/adapters/tickerfile"
	"finnhub_extractor/internal/feature/extraction/adapters/xlsx"
	"finnhub_extractor/internal/feature/extraction/usecase"
	"finnhub_extractor/internal/shared/ratelimiter"
)

// NewExtractUsecase wires the extraction pipeline. A nil db runs without the ledger.
func NewExtractUsecase(market usecase.MarketRepository, db *gorm.DB) *usecase.ExtractUsecase {
	var ledger usecase.RunLedger
	if db != nil {
		ledger = extractionadapters.NewRunLedger(db)
	}
	return usecase.NewExtractUsecase(
		tickerfile.NewParser(),
		market,
		xlsx.NewSheetWriter(),
		ledger,
		ratelimiter.NewFactory(),
	)
}
