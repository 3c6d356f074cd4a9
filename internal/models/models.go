package models

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Bar represents a single daily bar of an instrument
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Validate validates a Bar
func (b *Bar) Validate() error {
	if b.Date.IsZero() {
		return ErrInvalidDate
	}
	if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
		return ErrInvalidPrice
	}
	// High and Low are optional in the input files
	if b.High != 0 && b.Low != 0 && b.High < b.Low {
		return ErrInvalidBar
	}
	if b.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// Series is the ordered bar history of one instrument.
// Bars are ascending by date with no duplicate dates.
type Series struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

// NewSeries validates bars and returns them sorted ascending by date.
// The input slice is not modified.
func NewSeries(symbol string, bars []Bar) (Series, error) {
	if symbol == "" {
		return Series{}, ErrInvalidSymbol
	}

	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	for i := range sorted {
		if err := sorted[i].Validate(); err != nil {
			return Series{}, fmt.Errorf("%s row %d: %w", symbol, i+1, err)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return Series{}, fmt.Errorf("%s %s: %w", symbol, sorted[i].Date.Format("2006-01-02"), ErrDuplicateDate)
		}
	}

	return Series{Symbol: symbol, Bars: sorted}, nil
}

// Len returns the number of bars
func (s Series) Len() int {
	return len(s.Bars)
}

// Closes returns the close prices in date order
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}
	return closes
}

// Last returns the most recent bar and false if the series is empty
func (s Series) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
