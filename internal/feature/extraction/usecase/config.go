package usecase

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
)

// Defaults used when the corresponding variable is not set.
const (
	DefaultTickerFile   = "sources/tickers.txt"
	DefaultIntervals    = "60,D"
	DefaultDerived      = "2H,4H"
	DefaultCallBudget   = 60
	DefaultBudgetWindow = time.Minute
	DefaultTargetDir    = "data/xlsx"
)

// LoadRunParams reads the run parameters from environment variables.
func LoadRunParams() (entity.RunParams, error) {
	fileType, err := entity.ParseTickerFileType(getEnv("TICKER_FILETYPE", "custom"))
	if err != nil {
		return entity.RunParams{}, err
	}

	p := entity.RunParams{
		FileType:         fileType,
		TickerPath:       getEnv("TICKER_FILE", DefaultTickerFile),
		Intervals:        splitList(getEnv("INTERVALS", DefaultIntervals)),
		DerivedIntervals: splitList(getEnv("DERIVED_INTERVALS", DefaultDerived)),
		From:             os.Getenv("FROM"),
		To:               os.Getenv("TO"),
		CallBudget:       DefaultCallBudget,
		BudgetWindow:     DefaultBudgetWindow,
		TargetDir:        getEnv("TARGET_PATH_XLSX", DefaultTargetDir),
	}

	if v := os.Getenv("CALL_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return entity.RunParams{}, fmt.Errorf("invalid CALL_BUDGET %q", v)
		}
		p.CallBudget = n
	}
	if v := os.Getenv("BUDGET_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return entity.RunParams{}, fmt.Errorf("invalid BUDGET_WINDOW %q", v)
		}
		p.BudgetWindow = d
	}

	if len(p.Intervals) == 0 {
		return entity.RunParams{}, fmt.Errorf("INTERVALS is empty")
	}
	if p.From == "" || p.To == "" {
		return entity.RunParams{}, fmt.Errorf("FROM and TO must be set")
	}
	return p, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
