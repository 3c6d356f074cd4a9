package indicator

import (
	"errors"
	"fmt"
	"math"

	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

var errNilBar = errors.New("bar cannot be nil")

// EMA calculates the Exponential Moving Average with span semantics
// EMA[0] = price[0]
// EMA[i] = price[i] * alpha + EMA[i-1] * (1 - alpha), alpha = 2 / (span + 1)
//
// The first value is the first price, so there is no warm-up gap.
// A NaN input produces None at that position and leaves the state untouched.
type EMA struct {
	period    int
	name      string
	alpha     float64
	value     float64
	current   optional.Option[float64]
	ready     bool
	processed int
}

// NewEMA creates a new EMA calculator with the specified span
func NewEMA(period int) (*EMA, error) {
	if period < 1 {
		return nil, fmt.Errorf("EMA period must be at least 1, got %d: %w", period, models.ErrInvalidPeriod)
	}

	return &EMA{
		period:  period,
		name:    fmt.Sprintf("ema_%d", period),
		alpha:   2.0 / float64(period+1),
		current: optional.None[float64](),
	}, nil
}

// Name returns the indicator name
func (e *EMA) Name() string {
	return e.name
}

// Update processes a new bar and updates the EMA calculation
func (e *EMA) Update(bar *models.Bar) (optional.Option[float64], error) {
	price, err := closeOf(bar)
	if err != nil {
		return optional.None[float64](), err
	}
	return e.Add(price), nil
}

// Add feeds a raw value into the EMA
func (e *EMA) Add(v float64) optional.Option[float64] {
	e.processed++
	if math.IsNaN(v) {
		e.current = optional.None[float64]()
		return e.current
	}

	if !e.ready {
		e.value = v
		e.ready = true
	} else {
		e.value = v*e.alpha + e.value*(1-e.alpha)
	}

	e.current = optional.Some(e.value)
	return e.current
}

// Value returns the current EMA value
func (e *EMA) Value() optional.Option[float64] {
	return e.current
}

// Reset clears the EMA state
func (e *EMA) Reset() {
	e.value = 0
	e.current = optional.None[float64]()
	e.ready = false
	e.processed = 0
}

// IsReady returns true once the first value has been seen
func (e *EMA) IsReady() bool {
	return e.ready
}

// WindowSize returns the span
func (e *EMA) WindowSize() int {
	return e.period
}

// BarsProcessed returns the number of bars processed
func (e *EMA) BarsProcessed() int {
	return e.processed
}
