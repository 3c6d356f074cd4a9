package indicator

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// RSI calculates the Relative Strength Index
// RSI = 100 - (100 / (1 + RS))
// where RS = Average Gain / Average Loss over the period.
//
// Averages are simple means of the trailing period gains and losses, so the
// first value appears at the bar with index period (the first bar has no delta).
// A window with no losses and some gain yields 100. A window with neither
// gains nor losses yields None.
type RSI struct {
	period    int
	name      string
	gains     *Window
	losses    *Window
	prevClose float64
	hasPrev   bool
	current   optional.Option[float64]
	processed int
}

// NewRSI creates a new RSI calculator with the specified period (typically 14)
func NewRSI(period int) (*RSI, error) {
	if period < 1 {
		return nil, fmt.Errorf("RSI period must be at least 1, got %d: %w", period, models.ErrInvalidPeriod)
	}

	gains, err := NewWindow(period)
	if err != nil {
		return nil, err
	}
	losses, err := NewWindow(period)
	if err != nil {
		return nil, err
	}

	return &RSI{
		period:  period,
		name:    fmt.Sprintf("rsi_%d", period),
		gains:   gains,
		losses:  losses,
		current: optional.None[float64](),
	}, nil
}

// Name returns the indicator name
func (r *RSI) Name() string {
	return r.name
}

// Update processes a new bar and updates the RSI calculation
func (r *RSI) Update(bar *models.Bar) (optional.Option[float64], error) {
	price, err := closeOf(bar)
	if err != nil {
		return optional.None[float64](), err
	}
	return r.Add(price), nil
}

// Add feeds a raw close into the RSI
func (r *RSI) Add(v float64) optional.Option[float64] {
	r.processed++

	// First value: no delta yet
	if !r.hasPrev {
		r.prevClose = v
		r.hasPrev = true
		r.current = optional.None[float64]()
		return r.current
	}

	change := v - r.prevClose
	r.prevClose = v

	switch {
	case math.IsNaN(change):
		r.gains.Push(math.NaN())
		r.losses.Push(math.NaN())
	case change > 0:
		r.gains.Push(change)
		r.losses.Push(0)
	default:
		r.gains.Push(0)
		r.losses.Push(-change) // Loss is positive
	}

	r.current = r.calculateRSI()
	return r.current
}

// calculateRSI computes the RSI value from the current windows
func (r *RSI) calculateRSI() optional.Option[float64] {
	if !r.gains.Ready() || !r.losses.Ready() {
		return optional.None[float64]()
	}

	if r.losses.AllZero() {
		if r.gains.AllZero() {
			return optional.None[float64]() // 0/0
		}
		return optional.Some(100.0) // All gains, no losses
	}

	avgGain := r.gains.Mean().Unwrap()
	avgLoss := r.losses.Mean().Unwrap()
	if avgLoss <= 0 {
		// a non-zero loss is present, drift pushed the running sum under it
		r.losses.resync()
		avgLoss = r.losses.Mean().Unwrap()
	}
	if r.gains.AllZero() || avgGain < 0 {
		avgGain = 0
	}

	rs := avgGain / avgLoss
	rsi := 100.0 - (100.0 / (1.0 + rs))

	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return optional.None[float64]()
	}
	return optional.Some(math.Max(0, math.Min(100, rsi)))
}

// Value returns the current RSI value
func (r *RSI) Value() optional.Option[float64] {
	return r.current
}

// Reset clears the RSI state
func (r *RSI) Reset() {
	r.gains.Reset()
	r.losses.Reset()
	r.prevClose = 0
	r.hasPrev = false
	r.current = optional.None[float64]()
	r.processed = 0
}

// IsReady returns true if the RSI has enough data
func (r *RSI) IsReady() bool {
	return r.gains.Ready() && r.losses.Ready()
}

// WindowSize returns the number of bars required for the first value
func (r *RSI) WindowSize() int {
	return r.period + 1
}

// BarsProcessed returns the number of bars processed
func (r *RSI) BarsProcessed() int {
	return r.processed
}
