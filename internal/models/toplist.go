package models

import (
	"encoding/json"
	"time"
)

// ScreeningResult represents a single shortlist entry
type ScreeningResult struct {
	Symbol     string  `json:"symbol"`
	Rank       int     `json:"rank"` // 1-based
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	Strength   float64 `json:"strength"` // MACD - MACDSignal, the ranking key
}

// ToplistSnapshot is the shortlist produced by one screening run
type ToplistSnapshot struct {
	RunID       string            `json:"run_id"`
	Rankings    []ScreeningResult `json:"rankings"`
	Instruments int               `json:"instruments"` // number of instruments screened
	Timestamp   time.Time         `json:"timestamp"`
}

// Validate validates a ToplistSnapshot
func (ts *ToplistSnapshot) Validate() error {
	if ts.Timestamp.IsZero() {
		return ErrInvalidDate
	}
	for _, r := range ts.Rankings {
		if r.Symbol == "" {
			return ErrInvalidSymbol
		}
	}
	return nil
}

// Symbols returns the ranked symbols in order
func (ts *ToplistSnapshot) Symbols() []string {
	symbols := make([]string, len(ts.Rankings))
	for i, r := range ts.Rankings {
		symbols[i] = r.Symbol
	}
	return symbols
}

// ToJSON converts a ToplistSnapshot to JSON bytes
func (ts *ToplistSnapshot) ToJSON() ([]byte, error) {
	return json.Marshal(ts)
}

// ToplistSnapshotFromJSON creates a ToplistSnapshot from JSON bytes
func ToplistSnapshotFromJSON(data []byte) (*ToplistSnapshot, error) {
	var snapshot ToplistSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
