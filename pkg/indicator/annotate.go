package indicator

import (
	"fmt"
	"math"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// Params holds the indicator parameters applied to every instrument
type Params struct {
	RSIPeriod       int     `yaml:"rsi_period" json:"rsi_period"`
	MACDFast        int     `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow        int     `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal      int     `yaml:"macd_signal" json:"macd_signal"`
	BollingerWindow int     `yaml:"bollinger_window" json:"bollinger_window"`
	BollingerK      float64 `yaml:"bollinger_k" json:"bollinger_k"`
}

// DefaultParams returns RSI(14), MACD(12, 26, 9) and Bollinger(20, 2)
func DefaultParams() Params {
	return Params{
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerWindow: 20,
		BollingerK:      2,
	}
}

// Validate checks that every period is usable
func (p Params) Validate() error {
	periods := []struct {
		name  string
		value int
	}{
		{"rsi_period", p.RSIPeriod},
		{"macd_fast", p.MACDFast},
		{"macd_slow", p.MACDSlow},
		{"macd_signal", p.MACDSignal},
		{"bollinger_window", p.BollingerWindow},
	}
	for _, period := range periods {
		if period.value < 1 {
			return fmt.Errorf("%s must be at least 1, got %d: %w", period.name, period.value, models.ErrInvalidPeriod)
		}
	}
	if p.BollingerK < 0 || math.IsNaN(p.BollingerK) || math.IsInf(p.BollingerK, 0) {
		return fmt.Errorf("bollinger_k must be a non-negative number, got %v: %w", p.BollingerK, models.ErrInvalidPeriod)
	}
	return nil
}

// WithRSI returns a copy of a with the RSI column filled
func WithRSI(a models.AnnotatedSeries, period int) (models.AnnotatedSeries, error) {
	rsi, err := ComputeRSI(a.Closes(), period)
	if err != nil {
		return a, err
	}
	a.RSI = rsi
	return a, nil
}

// WithMACD returns a copy of a with the EMA, MACD and signal columns filled
func WithMACD(a models.AnnotatedSeries, fast, slow, signal int) (models.AnnotatedSeries, error) {
	cols, err := ComputeMACD(a.Closes(), fast, slow, signal)
	if err != nil {
		return a, err
	}
	a.EMAFast = cols.EMAFast
	a.EMASlow = cols.EMASlow
	a.MACD = cols.MACD
	a.MACDSignal = cols.Signal
	return a, nil
}

// WithBollinger returns a copy of a with the SMA, standard deviation and band columns filled
func WithBollinger(a models.AnnotatedSeries, window int, k float64) (models.AnnotatedSeries, error) {
	cols, err := ComputeBollinger(a.Closes(), window, k)
	if err != nil {
		return a, err
	}
	a.SMA = cols.SMA
	a.StdDev = cols.StdDev
	a.BollingerUpper = cols.Upper
	a.BollingerLower = cols.Lower
	return a, nil
}

// Annotate computes every indicator column for s. The three transforms write
// disjoint columns, so their order does not matter.
func Annotate(s models.Series, p Params) (models.AnnotatedSeries, error) {
	if err := p.Validate(); err != nil {
		return models.AnnotatedSeries{}, err
	}

	a := models.NewAnnotatedSeries(s)
	var err error
	if a, err = WithRSI(a, p.RSIPeriod); err != nil {
		return models.AnnotatedSeries{}, fmt.Errorf("%s: %w", s.Symbol, err)
	}
	if a, err = WithMACD(a, p.MACDFast, p.MACDSlow, p.MACDSignal); err != nil {
		return models.AnnotatedSeries{}, fmt.Errorf("%s: %w", s.Symbol, err)
	}
	if a, err = WithBollinger(a, p.BollingerWindow, p.BollingerK); err != nil {
		return models.AnnotatedSeries{}, fmt.Errorf("%s: %w", s.Symbol, err)
	}
	return a, nil
}
