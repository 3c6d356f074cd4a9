package indicator

import (
	"errors"
	"testing"
	"time"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

func seriesFromCloses(t *testing.T, symbol string, closes []float64) models.Series {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Date: start.AddDate(0, 0, i), Close: c}
	}
	s, err := models.NewSeries(symbol, bars)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}
	return s
}

func TestParams_Validate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params must be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"rsi period", func(p *Params) { p.RSIPeriod = 0 }},
		{"macd fast", func(p *Params) { p.MACDFast = -1 }},
		{"macd slow", func(p *Params) { p.MACDSlow = 0 }},
		{"macd signal", func(p *Params) { p.MACDSignal = 0 }},
		{"bollinger window", func(p *Params) { p.BollingerWindow = 0 }},
		{"bollinger k", func(p *Params) { p.BollingerK = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, models.ErrInvalidPeriod) {
				t.Errorf("expected ErrInvalidPeriod, got %v", err)
			}
		})
	}
}

func TestAnnotate_ColumnsAligned(t *testing.T) {
	s := seriesFromCloses(t, "AAA", testCloses(60))
	a, err := Annotate(s, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Validate(); err != nil {
		t.Fatal(err)
	}

	if a.RSI.Defined() != 60-14 {
		t.Errorf("expected %d RSI values, got %d", 60-14, a.RSI.Defined())
	}
	if a.MACD.Defined() != 60 || a.MACDSignal.Defined() != 60 {
		t.Error("MACD and signal are defined from the first bar")
	}
	if a.BollingerUpper.Defined() != 60-19 {
		t.Errorf("expected %d band values, got %d", 60-19, a.BollingerUpper.Defined())
	}
	if a.Symbol != "AAA" || a.Len() != 60 {
		t.Error("annotated series must keep the source bars")
	}
}

func TestAnnotate_EmptyAndShort(t *testing.T) {
	empty := seriesFromCloses(t, "EMPTY", nil)
	a, err := Annotate(empty, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(a.RSI) != 0 || len(a.MACD) != 0 || len(a.BollingerLower) != 0 {
		t.Error("empty series must give zero length columns")
	}

	short := seriesFromCloses(t, "SHORT", []float64{10, 11, 12})
	a, err = Annotate(short, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if a.RSI.Defined() != 0 || a.SMA.Defined() != 0 {
		t.Error("short series must give undefined windowed columns")
	}
	if a.MACD.Defined() != 3 {
		t.Error("MACD has no warm-up gap")
	}
}

func TestAnnotate_OrderIndependent(t *testing.T) {
	s := seriesFromCloses(t, "AAA", testCloses(40))
	p := DefaultParams()

	a := models.NewAnnotatedSeries(s)
	a, _ = WithBollinger(a, p.BollingerWindow, p.BollingerK)
	a, _ = WithMACD(a, p.MACDFast, p.MACDSlow, p.MACDSignal)
	a, _ = WithRSI(a, p.RSIPeriod)

	b, err := Annotate(s, p)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < s.Len(); i++ {
		if a.RSI[i].TakeOr(-1) != b.RSI[i].TakeOr(-1) ||
			a.MACDSignal[i].TakeOr(-1) != b.MACDSignal[i].TakeOr(-1) ||
			a.BollingerUpper[i].TakeOr(-1) != b.BollingerUpper[i].TakeOr(-1) {
			t.Fatalf("index %d differs between application orders", i)
		}
	}
}

func TestAnnotate_DoesNotMutateInput(t *testing.T) {
	s := seriesFromCloses(t, "AAA", testCloses(30))
	before := s.Closes()

	if _, err := Annotate(s, DefaultParams()); err != nil {
		t.Fatal(err)
	}
	after := s.Closes()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("close %d changed", i)
		}
	}
}

func TestAnnotate_InvalidParams(t *testing.T) {
	s := seriesFromCloses(t, "AAA", testCloses(30))
	p := DefaultParams()
	p.RSIPeriod = 0

	if _, err := Annotate(s, p); !errors.Is(err, models.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}
