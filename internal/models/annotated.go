package models

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"
)

// Column is an index-aligned derived series. None marks an undefined value.
type Column []optional.Option[float64]

// NewColumn returns a column of n undefined values
func NewColumn(n int) Column {
	c := make(Column, n)
	for i := range c {
		c[i] = optional.None[float64]()
	}
	return c
}

// At returns the value at index i, None when i is out of range
func (c Column) At(i int) optional.Option[float64] {
	if i < 0 || i >= len(c) {
		return optional.None[float64]()
	}
	return c[i]
}

// Last returns the final value of the column
func (c Column) Last() optional.Option[float64] {
	return c.At(len(c) - 1)
}

// Defined returns the number of defined values
func (c Column) Defined() int {
	n := 0
	for _, v := range c {
		if v.IsSome() {
			n++
		}
	}
	return n
}

// Floats returns the column as pointers so that undefined values encode as null
func (c Column) Floats() []*float64 {
	out := make([]*float64, len(c))
	for i, v := range c {
		if v.IsSome() {
			f := v.Unwrap()
			out[i] = &f
		}
	}
	return out
}

// AnnotatedSeries is a Series plus its derived indicator columns.
// It is built once per run and treated as read-only afterwards.
type AnnotatedSeries struct {
	Series

	RSI            Column
	EMAFast        Column
	EMASlow        Column
	MACD           Column
	MACDSignal     Column
	SMA            Column
	StdDev         Column
	BollingerUpper Column
	BollingerLower Column
}

// NewAnnotatedSeries allocates all columns as undefined
func NewAnnotatedSeries(s Series) AnnotatedSeries {
	n := s.Len()
	return AnnotatedSeries{
		Series:         s,
		RSI:            NewColumn(n),
		EMAFast:        NewColumn(n),
		EMASlow:        NewColumn(n),
		MACD:           NewColumn(n),
		MACDSignal:     NewColumn(n),
		SMA:            NewColumn(n),
		StdDev:         NewColumn(n),
		BollingerUpper: NewColumn(n),
		BollingerLower: NewColumn(n),
	}
}

// Validate checks that every column is aligned with the bars
func (a *AnnotatedSeries) Validate() error {
	n := a.Len()
	columns := map[string]Column{
		"rsi":             a.RSI,
		"ema_fast":        a.EMAFast,
		"ema_slow":        a.EMASlow,
		"macd":            a.MACD,
		"macd_signal":     a.MACDSignal,
		"sma":             a.SMA,
		"std_dev":         a.StdDev,
		"bollinger_upper": a.BollingerUpper,
		"bollinger_lower": a.BollingerLower,
	}
	for name, c := range columns {
		if len(c) != n {
			return fmt.Errorf("%s %s: got %d want %d: %w", a.Symbol, name, len(c), n, ErrLengthMismatch)
		}
	}
	return nil
}

// Snapshot is one row of an AnnotatedSeries
type Snapshot struct {
	Symbol         string
	Date           time.Time
	Close          float64
	RSI            optional.Option[float64]
	MACD           optional.Option[float64]
	MACDSignal     optional.Option[float64]
	SMA            optional.Option[float64]
	BollingerUpper optional.Option[float64]
	BollingerLower optional.Option[float64]
}

// Row returns the snapshot at index i. The second value is false when i is out of range.
func (a *AnnotatedSeries) Row(i int) (Snapshot, bool) {
	if i < 0 || i >= a.Len() {
		return Snapshot{Symbol: a.Symbol}, false
	}
	bar := a.Bars[i]
	return Snapshot{
		Symbol:         a.Symbol,
		Date:           bar.Date,
		Close:          bar.Close,
		RSI:            a.RSI.At(i),
		MACD:           a.MACD.At(i),
		MACDSignal:     a.MACDSignal.At(i),
		SMA:            a.SMA.At(i),
		BollingerUpper: a.BollingerUpper.At(i),
		BollingerLower: a.BollingerLower.At(i),
	}, true
}

// Latest returns the final row
func (a *AnnotatedSeries) Latest() (Snapshot, bool) {
	return a.Row(a.Len() - 1)
}

// Metrics returns the defined values of the row keyed by metric name.
// Undefined values are omitted.
func (s Snapshot) Metrics() map[string]float64 {
	m := map[string]float64{"close": s.Close}
	put := func(key string, v optional.Option[float64]) {
		if v.IsSome() {
			m[key] = v.Unwrap()
		}
	}
	put("rsi", s.RSI)
	put("macd", s.MACD)
	put("macd_signal", s.MACDSignal)
	put("sma", s.SMA)
	put("bollinger_upper", s.BollingerUpper)
	put("bollinger_lower", s.BollingerLower)
	if s.MACD.IsSome() && s.MACDSignal.IsSome() {
		m["macd_hist"] = s.MACD.Unwrap() - s.MACDSignal.Unwrap()
	}
	return m
}
