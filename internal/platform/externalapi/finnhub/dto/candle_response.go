// Package dto defines data transfer objects for the Finnhub API responses.
package dto

// CandleResponse represents the JSON response from the Finnhub stock/candle endpoint.
// Status is "ok" or "no_data"; the other fields are parallel arrays.
type CandleResponse struct {
	Status string    `json:"s"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
	Time   []int64   `json:"t"`
	Error  string    `json:"error,omitempty"`
}
