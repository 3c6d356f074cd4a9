package indicator

import (
	"fmt"
	"math"

	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// Bollinger calculates Bollinger Bands
// Middle = SMA(period), Upper/Lower = Middle +/- k * population standard deviation.
// Value returns the middle band.
type Bollinger struct {
	period    int
	k         float64
	name      string
	window    *Window
	middle    optional.Option[float64]
	stdDev    optional.Option[float64]
	processed int
}

// NewBollinger creates a Bollinger Bands calculator (typically 20, 2)
func NewBollinger(period int, k float64) (*Bollinger, error) {
	if period < 1 {
		return nil, fmt.Errorf("Bollinger period must be at least 1, got %d: %w", period, models.ErrInvalidPeriod)
	}
	if k < 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, fmt.Errorf("Bollinger multiplier must be a non-negative number, got %v: %w", k, models.ErrInvalidPeriod)
	}

	window, err := NewWindow(period)
	if err != nil {
		return nil, err
	}

	return &Bollinger{
		period: period,
		k:      k,
		name:   fmt.Sprintf("bb_%d_%s", period, formatMultiplier(k)),
		window: window,
		middle: optional.None[float64](),
		stdDev: optional.None[float64](),
	}, nil
}

// Name returns the indicator name
func (b *Bollinger) Name() string {
	return b.name
}

// Update processes a new bar and returns the middle band
func (b *Bollinger) Update(bar *models.Bar) (optional.Option[float64], error) {
	price, err := closeOf(bar)
	if err != nil {
		return optional.None[float64](), err
	}
	return b.Add(price), nil
}

// Add feeds a raw close and returns the middle band
func (b *Bollinger) Add(v float64) optional.Option[float64] {
	b.processed++
	b.window.Push(v)
	b.middle = b.window.Mean()
	b.stdDev = b.window.StdDev()
	return b.middle
}

// Value returns the middle band
func (b *Bollinger) Value() optional.Option[float64] {
	return b.middle
}

// StdDev returns the population standard deviation of the window
func (b *Bollinger) StdDev() optional.Option[float64] {
	return b.stdDev
}

// Upper returns the upper band
func (b *Bollinger) Upper() optional.Option[float64] {
	return b.band(1)
}

// Lower returns the lower band
func (b *Bollinger) Lower() optional.Option[float64] {
	return b.band(-1)
}

func (b *Bollinger) band(sign float64) optional.Option[float64] {
	if b.middle.IsNone() || b.stdDev.IsNone() {
		return optional.None[float64]()
	}
	return optional.Some(b.middle.Unwrap() + sign*b.k*b.stdDev.Unwrap())
}

// Reset clears the Bollinger state
func (b *Bollinger) Reset() {
	b.window.Reset()
	b.middle = optional.None[float64]()
	b.stdDev = optional.None[float64]()
	b.processed = 0
}

// IsReady returns true if the window is full
func (b *Bollinger) IsReady() bool {
	return b.window.Ready()
}

// WindowSize returns the period
func (b *Bollinger) WindowSize() int {
	return b.period
}

// BarsProcessed returns the number of bars processed
func (b *Bollinger) BarsProcessed() int {
	return b.processed
}
