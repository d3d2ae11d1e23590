package entity

import "strings"

// TickerFileType selects the on-disk layout of a ticker source file.
type TickerFileType int

const (
	// TickerFileUnknown is any layout the parser does not understand.
	TickerFileUnknown TickerFileType = iota
	// TickerFileCustom is a plain list: one symbol per line, no header.
	TickerFileCustom
	// TickerFileSP500 is tab delimited {symbol, name, sector}, no header.
	TickerFileSP500
	// TickerFileNasdaq is pipe delimited with a header row and a trailer row.
	TickerFileNasdaq
)

func (t TickerFileType) String() string {
	switch t {
	case TickerFileCustom:
		return "custom"
	case TickerFileSP500:
		return "sp500"
	case TickerFileNasdaq:
		return "nasdaq"
	default:
		return "unknown"
	}
}

// ParseTickerFileType maps a configuration value to a TickerFileType.
func ParseTickerFileType(s string) (TickerFileType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "custom", "plain":
		return TickerFileCustom, nil
	case "sp500", "tab":
		return TickerFileSP500, nil
	case "nasdaq", "pipe":
		return TickerFileNasdaq, nil
	default:
		return TickerFileUnknown, Eventf(FiletypeUnknown, "filetype %q is unknown", s)
	}
}
