package xlsx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
	"finnhub_extractor/internal/feature/extraction/usecase"
)

const (
	// defaultSheet is the sheet excelize puts in a new workbook.
	defaultSheet = "Sheet1"
	// replaceSheet temporarily holds new rows while the old sheet is removed.
	replaceSheet = "~replace"
	// timestampFormat is the display format of the timestamp column.
	timestampFormat = "yyyy-mm-dd hh:mm:ss"
)

// header is the first row of every sheet.
var header = []any{"timestamp", "open", "high", "low", "close", "volume"}

// SheetWriter writes bar tables as sheets of per-symbol workbooks.
type SheetWriter struct{}

var _ usecase.SheetWriter = (*SheetWriter)(nil)

func NewSheetWriter() *SheetWriter {
	return &SheetWriter{}
}

// Write stores table as the sheet named interval in the workbook at path.
// The workbook is created when absent; an existing sheet of the same name is
// replaced and other sheets are left untouched.
func (w *SheetWriter) Write(symbol, interval string, table entity.BarTable, path string) (ev entity.Event) {
	f, isNew, err := openWorkbook(path)
	if err != nil {
		return failure(err, "open workbook [%s]", path)
	}
	defer func() {
		if err := save(f, path, isNew); err != nil && ev.OK() {
			ev = failure(err, "save workbook [%s]", path)
		}
		if err := f.Close(); err != nil {
			slog.Warn("failed to close workbook", "path", path, "error", err)
		}
	}()

	sheet, err := prepareSheet(f, interval, isNew)
	if err != nil {
		return failure(err, "prepare sheet %s", interval)
	}
	if err := writeRows(f, sheet, table); err != nil {
		return failure(err, "write sheet %s", interval)
	}
	if sheet != interval {
		if err := f.DeleteSheet(interval); err != nil {
			return failure(err, "replace sheet %s", interval)
		}
		if err := f.SetSheetName(sheet, interval); err != nil {
			return failure(err, "replace sheet %s", interval)
		}
	}

	return entity.Eventf(entity.NoError, "sheet %s of %s saved to [%s]", interval, symbol, path)
}

func openWorkbook(path string) (*excelize.File, bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, false, err
	}
	return f, false, nil
}

// prepareSheet returns the sheet the rows go to. When interval already exists
// the rows go to a staging sheet that replaces it once written.
func prepareSheet(f *excelize.File, interval string, isNew bool) (string, error) {
	if isNew {
		if err := f.SetSheetName(defaultSheet, interval); err != nil {
			return "", err
		}
		return interval, nil
	}

	idx, err := f.GetSheetIndex(interval)
	if err != nil {
		return "", err
	}
	if idx < 0 {
		if _, err := f.NewSheet(interval); err != nil {
			return "", err
		}
		return interval, nil
	}

	if i, _ := f.GetSheetIndex(replaceSheet); i >= 0 {
		if err := f.DeleteSheet(replaceSheet); err != nil {
			return "", err
		}
	}
	if _, err := f.NewSheet(replaceSheet); err != nil {
		return "", err
	}
	return replaceSheet, nil
}

func writeRows(f *excelize.File, sheet string, table entity.BarTable) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, b := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{b.Time.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if len(table) == 0 {
		return nil
	}

	format := timestampFormat
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(1, len(table)+1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A2", last, style); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 20)
}

func save(f *excelize.File, path string, isNew bool) error {
	if isNew {
		return f.SaveAs(path)
	}
	return f.Save()
}

// failure maps a workbook error to an event: an unreachable path is
// FileMissing, anything else ResponseFormat.
func failure(err error, format string, args ...any) entity.Event {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, fs.ErrNotExist) {
		return entity.NewEvent(entity.FileMissing, msg).Wrap(err)
	}
	return entity.NewEvent(entity.ResponseFormat, msg).Wrap(err)
}
