package indicator

import (
	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// MACDColumns holds the MACD related outputs of ComputeMACD
type MACDColumns struct {
	EMAFast models.Column
	EMASlow models.Column
	MACD    models.Column
	Signal  models.Column
}

// BollingerColumns holds the outputs of ComputeBollinger
type BollingerColumns struct {
	SMA    models.Column
	StdDev models.Column
	Upper  models.Column
	Lower  models.Column
}

func compute(calc valueCalculator, values []float64) models.Column {
	out := make(models.Column, len(values))
	for i, v := range values {
		out[i] = calc.Add(v)
	}
	return out
}

// ComputeEMA returns the EMA of values with the given span.
// The result has the same length as values.
func ComputeEMA(values []float64, span int) (models.Column, error) {
	ema, err := NewEMA(span)
	if err != nil {
		return nil, err
	}
	return compute(ema, values), nil
}

// ComputeSMA returns the trailing simple moving average of values
func ComputeSMA(values []float64, period int) (models.Column, error) {
	sma, err := NewSMA(period)
	if err != nil {
		return nil, err
	}
	return compute(sma, values), nil
}

// ComputeRSI returns the RSI of closes. Values before index period are None.
func ComputeRSI(closes []float64, period int) (models.Column, error) {
	rsi, err := NewRSI(period)
	if err != nil {
		return nil, err
	}
	return compute(rsi, closes), nil
}

// ComputeMACD returns the fast and slow EMAs, the MACD line and its signal line
func ComputeMACD(closes []float64, fast, slow, signal int) (MACDColumns, error) {
	macd, err := NewMACD(fast, slow, signal)
	if err != nil {
		return MACDColumns{}, err
	}

	n := len(closes)
	cols := MACDColumns{
		EMAFast: make(models.Column, n),
		EMASlow: make(models.Column, n),
		MACD:    make(models.Column, n),
		Signal:  make(models.Column, n),
	}
	for i, v := range closes {
		cols.MACD[i] = macd.Add(v)
		cols.EMAFast[i] = macd.Fast()
		cols.EMASlow[i] = macd.Slow()
		cols.Signal[i] = macd.Signal()
	}
	return cols, nil
}

// ComputeBollinger returns the middle band, standard deviation and the upper
// and lower bands. Values before the window fills are None.
func ComputeBollinger(closes []float64, window int, k float64) (BollingerColumns, error) {
	bb, err := NewBollinger(window, k)
	if err != nil {
		return BollingerColumns{}, err
	}

	n := len(closes)
	cols := BollingerColumns{
		SMA:    make(models.Column, n),
		StdDev: make(models.Column, n),
		Upper:  make(models.Column, n),
		Lower:  make(models.Column, n),
	}
	for i, v := range closes {
		cols.SMA[i] = bb.Add(v)
		cols.StdDev[i] = bb.StdDev()
		cols.Upper[i] = bb.Upper()
		cols.Lower[i] = bb.Lower()
	}
	return cols, nil
}
