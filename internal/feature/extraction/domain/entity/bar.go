// Package entity defines the domain models for the extraction feature.
package entity

import "time"

// Bar represents one OHLCV (Open, High, Low, Close, Volume) record for one time bucket.
type Bar struct {
	Time   time.Time // Start of the bucket, UTC, second resolution
	Open   float64   // Opening price
	High   float64   // Highest price during this period
	Low    float64   // Lowest price during this period
	Close  float64   // Closing price
	Volume float64   // Traded volume
}

// BarTable is a time-indexed sequence of bars sorted ascending by Time.
type BarTable []Bar

// Clone returns an independent copy of the table.
func (t BarTable) Clone() BarTable {
	if t == nil {
		return nil
	}
	out := make(BarTable, len(t))
	copy(out, t)
	return out
}

// CandleResponse is the raw payload of one provider candle call.
// The slices are parallel: index i of every slice describes the same bar.
type CandleResponse struct {
	Status string    `json:"s"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
	Time   []int64   `json:"t"`
}
