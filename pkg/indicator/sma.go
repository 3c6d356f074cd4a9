package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// SMA calculates the Simple Moving Average
// SMA = Sum of prices over period / period
type SMA struct {
	period    int
	name      string
	window    *Window
	current   optional.Option[float64]
	processed int
}

// NewSMA creates a new SMA calculator with the specified period
func NewSMA(period int) (*SMA, error) {
	if period < 1 {
		return nil, fmt.Errorf("SMA period must be at least 1, got %d: %w", period, models.ErrInvalidPeriod)
	}

	window, err := NewWindow(period)
	if err != nil {
		return nil, err
	}

	return &SMA{
		period:  period,
		name:    fmt.Sprintf("sma_%d", period),
		window:  window,
		current: optional.None[float64](),
	}, nil
}

// Name returns the indicator name
func (s *SMA) Name() string {
	return s.name
}

// Update processes a new bar and updates the SMA calculation
func (s *SMA) Update(bar *models.Bar) (optional.Option[float64], error) {
	price, err := closeOf(bar)
	if err != nil {
		return optional.None[float64](), err
	}
	return s.Add(price), nil
}

// Add feeds a raw value into the SMA
func (s *SMA) Add(v float64) optional.Option[float64] {
	s.processed++
	s.window.Push(v)
	s.current = s.window.Mean()
	return s.current
}

// Value returns the current SMA value
func (s *SMA) Value() optional.Option[float64] {
	return s.current
}

// Reset clears the SMA state
func (s *SMA) Reset() {
	s.window.Reset()
	s.current = optional.None[float64]()
	s.processed = 0
}

// IsReady returns true if the SMA has enough data
func (s *SMA) IsReady() bool {
	return s.window.Ready()
}

// WindowSize returns the period (number of bars required)
func (s *SMA) WindowSize() int {
	return s.period
}

// BarsProcessed returns the number of bars processed
func (s *SMA) BarsProcessed() int {
	return s.processed
}
