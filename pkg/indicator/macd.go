package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// MACD calculates the Moving Average Convergence Divergence line
// MACD = EMA(fast) - EMA(slow), Signal = EMA(signal) of MACD.
// All three series start at the first bar.
type MACD struct {
	name      string
	fast      *EMA
	slow      *EMA
	signal    *EMA
	line      optional.Option[float64]
	processed int
}

// NewMACD creates a MACD calculator (typically 12, 26, 9)
func NewMACD(fast, slow, signal int) (*MACD, error) {
	fastEMA, err := NewEMA(fast)
	if err != nil {
		return nil, fmt.Errorf("MACD fast: %w", err)
	}
	slowEMA, err := NewEMA(slow)
	if err != nil {
		return nil, fmt.Errorf("MACD slow: %w", err)
	}
	signalEMA, err := NewEMA(signal)
	if err != nil {
		return nil, fmt.Errorf("MACD signal: %w", err)
	}

	return &MACD{
		name:   fmt.Sprintf("macd_%d_%d_%d", fast, slow, signal),
		fast:   fastEMA,
		slow:   slowEMA,
		signal: signalEMA,
		line:   optional.None[float64](),
	}, nil
}

// Name returns the indicator name
func (m *MACD) Name() string {
	return m.name
}

// Update processes a new bar and returns the MACD line
func (m *MACD) Update(bar *models.Bar) (optional.Option[float64], error) {
	price, err := closeOf(bar)
	if err != nil {
		return optional.None[float64](), err
	}
	return m.Add(price), nil
}

// Add feeds a raw close and returns the MACD line
func (m *MACD) Add(v float64) optional.Option[float64] {
	m.processed++
	fast := m.fast.Add(v)
	slow := m.slow.Add(v)

	if fast.IsNone() || slow.IsNone() {
		m.line = optional.None[float64]()
		m.signal.current = optional.None[float64]()
		return m.line
	}

	line := fast.Unwrap() - slow.Unwrap()
	m.line = optional.Some(line)
	m.signal.Add(line)
	return m.line
}

// Value returns the MACD line
func (m *MACD) Value() optional.Option[float64] {
	return m.line
}

// Fast returns the fast EMA
func (m *MACD) Fast() optional.Option[float64] {
	return m.fast.Value()
}

// Slow returns the slow EMA
func (m *MACD) Slow() optional.Option[float64] {
	return m.slow.Value()
}

// Signal returns the signal line
func (m *MACD) Signal() optional.Option[float64] {
	return m.signal.Value()
}

// Histogram returns MACD - Signal
func (m *MACD) Histogram() optional.Option[float64] {
	if m.line.IsNone() || m.signal.Value().IsNone() {
		return optional.None[float64]()
	}
	return optional.Some(m.line.Unwrap() - m.signal.Value().Unwrap())
}

// Reset clears the MACD state
func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
	m.line = optional.None[float64]()
	m.processed = 0
}

// IsReady returns true once the MACD line has a value
func (m *MACD) IsReady() bool {
	return m.fast.IsReady() && m.slow.IsReady()
}

// WindowSize returns the slow span
func (m *MACD) WindowSize() int {
	return m.slow.WindowSize()
}

// BarsProcessed returns the number of bars processed
func (m *MACD) BarsProcessed() int {
	return m.processed
}
