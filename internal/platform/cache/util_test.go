package cache

import (
	"testing"
	"time"
)

func TestTimeUntilSessionClose(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data not available: %v", err)
	}

	tests := []struct {
		name     string
		now      time.Time
		expected time.Duration
	}{
		{"morning", time.Date(2020, 7, 1, 9, 30, 0, 0, loc), 10*time.Hour + 30*time.Minute},
		{"just before close", time.Date(2020, 7, 1, 19, 59, 0, 0, loc), time.Minute},
		{"at close rolls to next day", time.Date(2020, 7, 1, 20, 0, 0, 0, loc), 24 * time.Hour},
		{"late evening", time.Date(2020, 7, 1, 23, 0, 0, 0, loc), 21 * time.Hour},
		{"utc input", time.Date(2020, 7, 1, 12, 0, 0, 0, time.UTC), 12 * time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TimeUntilSessionClose(tt.now); got != tt.expected {
				t.Errorf("TimeUntilSessionClose(%v) = %v, expected %v", tt.now, got, tt.expected)
			}
		})
	}
}

func TestTimeUntilSessionClose_AlwaysPositive(t *testing.T) {
	t.Parallel()

	// Run multiple times to ensure consistency
	now := time.Now()
	for i := 0; i < 48; i++ {
		duration := TimeUntilSessionClose(now.Add(time.Duration(i) * 30 * time.Minute))
		if duration <= 0 || duration > 25*time.Hour {
			t.Errorf("iteration %d: unexpected duration %v", i, duration)
		}
	}
}
