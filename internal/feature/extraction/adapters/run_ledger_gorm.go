package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
	"finnhub_extractor/internal/feature/extraction/usecase"
)

type runLedgerGorm struct {
	db *gorm.DB
}

var _ usecase.RunLedger = (*runLedgerGorm)(nil)

func NewRunLedger(db *gorm.DB) *runLedgerGorm {
	return &runLedgerGorm{db: db}
}

// RunModel is one (symbol, interval) outcome of an extraction run.
type RunModel struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"size:32;not null;index:run_sym_int,priority:1"`
	Symbol      string `gorm:"size:32;not null;index:run_sym_int,priority:2"`
	Interval    string `gorm:"size:16;not null;index:run_sym_int,priority:3"`
	Outcome     string `gorm:"size:16;not null"`
	Rows        int    `gorm:"not null;default:0"`
	Path        string `gorm:"size:255"`
	EventType   string `gorm:"size:32;not null"`
	Description string `gorm:"size:512"`
	CreatedAt   time.Time
}

func (RunModel) TableName() string {
	return "extraction_runs"
}

func toModel(r entity.RunRecord) RunModel {
	return RunModel{
		RunID:       r.RunID,
		Symbol:      r.Symbol,
		Interval:    r.Interval,
		Outcome:     string(r.Outcome),
		Rows:        r.Rows,
		Path:        r.Path,
		EventType:   r.EventType.String(),
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

func (r *runLedgerGorm) Record(ctx context.Context, rec entity.RunRecord) error {
	m := toModel(rec)
	return r.db.WithContext(ctx).Create(&m).Error
}

// FindRun returns the outcomes recorded for runID in insertion order.
func (r *runLedgerGorm) FindRun(ctx context.Context, runID string) ([]entity.RunRecord, error) {
	var rows []RunModel
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.RunRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.RunRecord{
			RunID:       m.RunID,
			Symbol:      m.Symbol,
			Interval:    m.Interval,
			Outcome:     entity.Outcome(m.Outcome),
			Rows:        m.Rows,
			Path:        m.Path,
			EventType:   entity.ParseEventType(m.EventType),
			Description: m.Description,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}
