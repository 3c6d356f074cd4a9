package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// Calculator is the interface for computing technical indicators bar by bar.
// Each indicator type implements this interface
type Calculator interface {
	// Name returns the unique name of this indicator (e.g., "rsi_14", "ema_12")
	Name() string

	// Update processes a new bar and returns the indicator value at that bar.
	// The value is None while the indicator is warming up.
	Update(bar *models.Bar) (optional.Option[float64], error)

	// Value returns the value produced by the last Update
	Value() optional.Option[float64]

	// Reset clears the indicator state
	Reset()

	// IsReady returns true if the indicator has enough data to produce a value
	IsReady() bool
}

// WindowedCalculator extends Calculator for indicators that require a window of bars
type WindowedCalculator interface {
	Calculator

	// WindowSize returns the number of bars required before the first value
	WindowSize() int

	// BarsProcessed returns the number of bars processed so far
	BarsProcessed() int
}

// valueCalculator is implemented by calculators that can consume raw values.
// Series level functions and nested indicators (the MACD signal line) use it.
type valueCalculator interface {
	Add(v float64) optional.Option[float64]
}

func closeOf(bar *models.Bar) (float64, error) {
	if bar == nil {
		return 0, errNilBar
	}
	return bar.Close, nil
}
