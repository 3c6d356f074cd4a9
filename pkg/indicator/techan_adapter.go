package indicator

import (
	"fmt"
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// TechanCalculator wraps a Techan indicator to implement the Calculator interface.
// It keeps the whole bar history in a Techan TimeSeries, so it is meant as a
// reference implementation for cross-checking, not for long series.
type TechanCalculator struct {
	name      string
	series    *techan.TimeSeries
	build     func(series *techan.TimeSeries) techan.Indicator
	indicator techan.Indicator
	period    int
	current   optional.Option[float64]
}

// NewTechanCalculator creates a new Techan-based calculator. build receives the
// TimeSeries the calculator appends to and returns the indicator over it.
func NewTechanCalculator(
	name string,
	period int,
	build func(series *techan.TimeSeries) techan.Indicator,
) *TechanCalculator {
	series := techan.NewTimeSeries()

	return &TechanCalculator{
		name:      name,
		series:    series,
		build:     build,
		indicator: build(series),
		period:    period,
		current:   optional.None[float64](),
	}
}

// NewTechanSMA creates a Techan SMA over close prices
func NewTechanSMA(period int) (*TechanCalculator, error) {
	if period < 1 {
		return nil, fmt.Errorf("SMA period must be at least 1, got %d: %w", period, models.ErrInvalidPeriod)
	}
	return NewTechanCalculator(
		fmt.Sprintf("techan_sma_%d", period),
		period,
		func(series *techan.TimeSeries) techan.Indicator {
			return techan.NewSimpleMovingAverage(techan.NewClosePriceIndicator(series), period)
		},
	), nil
}

func (t *TechanCalculator) Name() string {
	return t.name
}

func (t *TechanCalculator) Update(bar *models.Bar) (optional.Option[float64], error) {
	if bar == nil {
		return optional.None[float64](), errNilBar
	}

	// Daily bars
	candle := techan.NewCandle(techan.NewTimePeriod(bar.Date, 24*time.Hour))
	candle.OpenPrice = big.NewDecimal(bar.Open)
	candle.MaxPrice = big.NewDecimal(bar.High)
	candle.MinPrice = big.NewDecimal(bar.Low)
	candle.ClosePrice = big.NewDecimal(bar.Close)
	candle.Volume = big.NewDecimal(bar.Volume)

	if !t.series.AddCandle(candle) {
		return optional.None[float64](), fmt.Errorf("%s: bar at %s is not after the previous bar: %w",
			t.name, bar.Date.Format("2006-01-02"), models.ErrInvalidDate)
	}

	// Techan returns zero while the window is filling
	lastIndex := t.series.LastIndex()
	if lastIndex < t.period-1 {
		t.current = optional.None[float64]()
		return t.current, nil
	}

	value := t.indicator.Calculate(lastIndex).Float()
	if math.IsNaN(value) || math.IsInf(value, 0) {
		t.current = optional.None[float64]()
	} else {
		t.current = optional.Some(value)
	}
	return t.current, nil
}

func (t *TechanCalculator) Value() optional.Option[float64] {
	return t.current
}

func (t *TechanCalculator) Reset() {
	t.series = techan.NewTimeSeries()
	t.indicator = t.build(t.series)
	t.current = optional.None[float64]()
}

func (t *TechanCalculator) IsReady() bool {
	return t.series.LastIndex() >= t.period-1
}

// WindowSize returns the number of bars required for this indicator
func (t *TechanCalculator) WindowSize() int {
	return t.period
}

// BarsProcessed returns the number of bars processed so far
func (t *TechanCalculator) BarsProcessed() int {
	return t.series.LastIndex() + 1
}
