package entity

import "time"

// RunParams describes one extraction run.
type RunParams struct {
	FileType         TickerFileType
	TickerPath       string
	Intervals        []string      // Processed in this order for every symbol
	DerivedIntervals []string      // Intervals produced by resampling instead of fetching
	From             string        // Lower bound, any format accepted by timeconv
	To               string        // Upper bound, any format accepted by timeconv
	CallBudget       int           // Provider calls allowed per window
	BudgetWindow     time.Duration // Length of the rate-limit window
	TargetDir        string        // Directory receiving the .xlsx files
}

// IsDerived reports whether interval is produced by resampling.
func (p RunParams) IsDerived(interval string) bool {
	for _, d := range p.DerivedIntervals {
		if d == interval {
			return true
		}
	}
	return false
}

// Outcome is the result of processing one (symbol, interval) unit.
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// RunRecord is the ledger entry for one (symbol, interval) unit of work.
type RunRecord struct {
	RunID       string
	Symbol      string
	Interval    string
	Outcome     Outcome
	Rows        int
	Path        string
	EventType   EventType
	Description string
	CreatedAt   time.Time
}

// RunSummary counts unit outcomes of a run.
type RunSummary struct {
	RunID   string
	Symbols int
	Written int
	Skipped int
	Failed  int
}

// Add counts one outcome.
func (s *RunSummary) Add(o Outcome) {
	switch o {
	case OutcomeWritten:
		s.Written++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}
