package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
)

var (
	// ErrEmptyTable is returned when there is nothing to resample.
	ErrEmptyTable = errors.New("empty source table")
	// ErrUnsupportedInterval is returned for bucket widths that are not a fixed duration.
	ErrUnsupportedInterval = errors.New("unsupported resample interval")
)

// ParseBucket converts an interval such as "2H", "15T", "15min", "3D" or "30S"
// into a fixed bucket width. A missing count means 1.
func ParseBucket(interval string) (time.Duration, error) {
	s := strings.ToUpper(strings.TrimSpace(interval))

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n := 1
	if i > 0 {
		v, err := strconv.Atoi(s[:i])
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
		}
		n = v
	}

	var unit time.Duration
	switch s[i:] {
	case "S":
		unit = time.Second
	case "T", "MIN":
		unit = time.Minute
	case "H":
		unit = time.Hour
	case "D":
		unit = 24 * time.Hour
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedInterval, interval)
	}
	return time.Duration(n) * unit, nil
}

// Resample aggregates table into buckets of the target width:
// open first, high max, low min, close last, volume sum.
// Buckets are aligned to UTC midnight of the first bar's day and buckets
// without source bars are not emitted.
func Resample(table entity.BarTable, target string) (entity.BarTable, error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}
	width, err := ParseBucket(target)
	if err != nil {
		return nil, err
	}

	first := table[0].Time.UTC()
	origin := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)

	out := make(entity.BarTable, 0, len(table))
	for _, b := range table {
		if b.Time.Before(origin) {
			return nil, fmt.Errorf("source table is not sorted at %s", b.Time.Format(time.RFC3339))
		}
		start := origin.Add(b.Time.Sub(origin) / width * width)

		last := len(out) - 1
		if last >= 0 && out[last].Time.Equal(start) {
			agg := &out[last]
			if b.High > agg.High {
				agg.High = b.High
			}
			if b.Low < agg.Low {
				agg.Low = b.Low
			}
			agg.Close = b.Close
			agg.Volume += b.Volume
			continue
		}
		if last >= 0 && start.Before(out[last].Time) {
			return nil, fmt.Errorf("source table is not sorted at %s", b.Time.Format(time.RFC3339))
		}

		out = append(out, entity.Bar{
			Time:   start,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return out, nil
}
