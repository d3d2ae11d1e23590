package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
)

var resampleBase = time.Date(2020, 7, 1, 14, 0, 0, 0, time.UTC)

func minuteBars() entity.BarTable {
	return entity.BarTable{
		{Time: resampleBase, Open: 10, High: 11, Low: 9, Close: 10, Volume: 100},
		{Time: resampleBase.Add(time.Minute), Open: 10, High: 12, Low: 10, Close: 11, Volume: 50},
		{Time: resampleBase.Add(2 * time.Minute), Open: 11, High: 11, Low: 8, Close: 9, Volume: 75},
		{Time: resampleBase.Add(3 * time.Minute), Open: 9, High: 10, Low: 9, Close: 9.5, Volume: 25},
	}
}

func TestResample_SingleBucket(t *testing.T) {
	t.Parallel()

	out, err := Resample(minuteBars(), "5T")
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, entity.Bar{Time: resampleBase, Open: 10, High: 12, Low: 8, Close: 9.5, Volume: 250}, out[0])
}

func TestResample_DropsEmptyBuckets(t *testing.T) {
	t.Parallel()

	hour := time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC)
	src := entity.BarTable{
		{Time: hour.Add(9 * time.Hour), Open: 1, High: 2, Low: 1, Close: 2, Volume: 10},
		{Time: hour.Add(10 * time.Hour), Open: 2, High: 3, Low: 2, Close: 3, Volume: 10},
		// 12:00-14:00 has no source bars
		{Time: hour.Add(14 * time.Hour), Open: 3, High: 4, Low: 1, Close: 1, Volume: 5},
		{Time: hour.Add(15 * time.Hour), Open: 1, High: 1, Low: 0.5, Close: 0.7, Volume: 5},
	}

	out, err := Resample(src, "2H")
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, hour.Add(8*time.Hour), out[0].Time, "09:00 falls in the 08:00 bucket")
	assert.Equal(t, 10.0, out[0].Volume)
	assert.Equal(t, hour.Add(10*time.Hour), out[1].Time)
	assert.Equal(t, hour.Add(14*time.Hour), out[2].Time)
	assert.Equal(t, 4.0, out[2].High)
	assert.Equal(t, 0.5, out[2].Low)
	assert.Equal(t, 0.7, out[2].Close)
	assert.Equal(t, 10.0, out[2].Volume)
}

func TestResample_DoesNotModifySource(t *testing.T) {
	t.Parallel()

	src := minuteBars()
	_, err := Resample(src, "2T")
	require.NoError(t, err)
	assert.Equal(t, minuteBars(), src)
}

func TestResample_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		table  entity.BarTable
		target string
		want   error
	}{
		{"nil table", nil, "2H", ErrEmptyTable},
		{"empty table", entity.BarTable{}, "2H", ErrEmptyTable},
		{"month is not a fixed width", minuteBars(), "M", ErrUnsupportedInterval},
		{"week is not supported", minuteBars(), "W", ErrUnsupportedInterval},
		{"plain number", minuteBars(), "60", ErrUnsupportedInterval},
		{"zero count", minuteBars(), "0H", ErrUnsupportedInterval},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Resample(tt.table, tt.target)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, out)
		})
	}
}

func TestResample_UnsortedSource(t *testing.T) {
	t.Parallel()

	src := minuteBars()
	src[1], src[3] = src[3], src[1]

	_, err := Resample(src, "2T")
	assert.Error(t, err)
}

func TestParseBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"2H", 2 * time.Hour},
		{"4h", 4 * time.Hour},
		{"15T", 15 * time.Minute},
		{"15min", 15 * time.Minute},
		{"3D", 72 * time.Hour},
		{"30S", 30 * time.Second},
		{"H", time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseBucket(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
