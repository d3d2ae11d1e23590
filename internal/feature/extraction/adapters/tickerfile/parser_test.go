package tickerfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finnhub_extractor/internal/feature/extraction/domain/entity"
)

// writeFile creates a ticker file inside a per-test directory.
func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tickers.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const nasdaqListing = `Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares
AAPL|Apple Inc. - Common Stock|Q|N|N|100|N|N
MSFT|Microsoft Corporation - Common Stock|Q|N|N|100|N|N
AAPL|Apple Inc. - Common Stock|Q|N|N|100|N|N
File Creation Time: 0702202017:32|||||||
`

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		fileType entity.TickerFileType
		content  string
		expected []string
		wantType entity.EventType
	}{
		{
			name:     "success: plain list is trimmed",
			fileType: entity.TickerFileCustom,
			content:  "AAPL\n  MSFT \n\nGOOG\r\n",
			expected: []string{"AAPL", "MSFT", "GOOG"},
		},
		{
			name:     "success: tab list takes the first column",
			fileType: entity.TickerFileSP500,
			content:  "MMM\t3M Company\tIndustrials\nAOS\tA.O. Smith Corp\tIndustrials\n",
			expected: []string{"MMM", "AOS"},
		},
		{
			name:     "success: pipe list drops the trailer and keeps duplicates",
			fileType: entity.TickerFileNasdaq,
			content:  nasdaqListing,
			expected: []string{"AAPL", "MSFT", "AAPL"},
		},
		{
			name:     "success: symbol column found by header name",
			fileType: entity.TickerFileNasdaq,
			content:  "Name|Symbol\nApple|AAPL\nTrailer|\n",
			expected: []string{"AAPL"},
		},
		{
			name:     "failure: plain list with only blank lines",
			fileType: entity.TickerFileCustom,
			content:  "\n   \n",
			wantType: entity.FileEmpty,
		},
		{
			name:     "failure: pipe list with header and trailer only",
			fileType: entity.TickerFileNasdaq,
			content:  "Symbol|Security Name\nFile Creation Time: 0702202017:32|\n",
			wantType: entity.FileEmpty,
		},
		{
			name:     "failure: pipe list without a symbol column",
			fileType: entity.TickerFileNasdaq,
			content:  "Ticker|Name\nAAPL|Apple\nTrailer|\n",
			wantType: entity.ResponseFormat,
		},
		{
			name:     "failure: unsupported file type",
			fileType: entity.TickerFileUnknown,
			content:  "AAPL\n",
			wantType: entity.FileNotFetched,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, tc.content)
			symbols, err := NewParser().Parse(tc.fileType, path)

			if tc.expected != nil {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, symbols)
				return
			}

			require.Error(t, err)
			assert.Nil(t, symbols)
			var ev entity.Event
			require.True(t, errors.As(err, &ev))
			assert.Equal(t, tc.wantType, ev.Type)
		})
	}
}

func TestParser_Parse_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.txt")

	for _, ft := range []entity.TickerFileType{entity.TickerFileCustom, entity.TickerFileSP500, entity.TickerFileNasdaq, entity.TickerFileUnknown} {
		_, err := NewParser().Parse(ft, path)

		var ev entity.Event
		require.True(t, errors.As(err, &ev), "file type %s", ft)
		assert.Equal(t, entity.FileMissing, ev.Type)
		assert.ErrorIs(t, err, os.ErrNotExist)
	}
}
