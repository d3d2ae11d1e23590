// Package timeconv converts user supplied datetime text into provider timestamps.
package timeconv

import (
	"strings"
	"time"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
)

// layouts are tried in order. A fractional second after the seconds field is
// accepted by time.Parse even though the layout does not spell it out.
var layouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse interprets text in local time using the first matching layout.
func Parse(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, entity.Eventf(entity.DateConversion, "cannot convert %q to a date", text)
}

// ToEpochSeconds returns the Unix time of text truncated to whole seconds.
// 0 means the conversion failed and must not be read as 1970-01-01.
func ToEpochSeconds(text string) int64 {
	t, err := Parse(text)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// Compact formats text as YYYYMMDDhhmmss for use in file names.
// Unparsable input keeps only its letters and digits.
func Compact(text string) string {
	if t, err := Parse(text); err == nil {
		return t.Format("20060102150405")
	}
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, text)
}
