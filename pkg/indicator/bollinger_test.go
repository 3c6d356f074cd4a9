package indicator

import (
	"errors"
	"math"
	"testing"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

func TestNewBollinger_Invalid(t *testing.T) {
	if _, err := NewBollinger(0, 2); !errors.Is(err, models.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod for period 0, got %v", err)
	}
	if _, err := NewBollinger(20, -1); !errors.Is(err, models.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod for negative k, got %v", err)
	}

	bb, _ := NewBollinger(20, 2)
	if bb.Name() != "bb_20_2" {
		t.Errorf("unexpected name %s", bb.Name())
	}
	bb, _ = NewBollinger(10, 2.5)
	if bb.Name() != "bb_10_2.5" {
		t.Errorf("unexpected name %s", bb.Name())
	}
}

func TestComputeBollinger_KnownValues(t *testing.T) {
	cols, err := ComputeBollinger([]float64{1, 2, 3, 4}, 3, 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if cols.SMA[i].IsSome() || cols.Upper[i].IsSome() || cols.Lower[i].IsSome() || cols.StdDev[i].IsSome() {
			t.Errorf("index %d should be undefined", i)
		}
	}

	std := math.Sqrt(2.0 / 3.0)
	assertClose(t, "sma[2]", cols.SMA[2].Unwrap(), 2, 1e-12)
	assertClose(t, "std[2]", cols.StdDev[2].Unwrap(), std, 1e-12)
	assertClose(t, "upper[2]", cols.Upper[2].Unwrap(), 2+2*std, 1e-12)
	assertClose(t, "lower[2]", cols.Lower[2].Unwrap(), 2-2*std, 1e-12)
	assertClose(t, "sma[3]", cols.SMA[3].Unwrap(), 3, 1e-12)
}

func TestComputeBollinger_BandWidthIsFourStd(t *testing.T) {
	closes := testCloses(200)
	cols, err := ComputeBollinger(closes, 20, 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := 19; i < len(closes); i++ {
		upper := cols.Upper[i].Unwrap()
		lower := cols.Lower[i].Unwrap()
		sma := cols.SMA[i].Unwrap()
		std := cols.StdDev[i].Unwrap()

		assertClose(t, "width", upper-lower, 4*std, 1e-9)
		if !(upper >= sma && sma >= lower) {
			t.Errorf("index %d: expected upper >= sma >= lower, got %v %v %v", i, upper, sma, lower)
		}
	}
	if cols.SMA.Defined() != len(closes)-19 {
		t.Errorf("expected %d defined values, got %d", len(closes)-19, cols.SMA.Defined())
	}
}

func TestComputeBollinger_PopulationStd(t *testing.T) {
	closes := testCloses(20)
	cols, _ := ComputeBollinger(closes, 20, 2)

	var sum float64
	for _, c := range closes {
		sum += c
	}
	mean := sum / 20
	var ss float64
	for _, c := range closes {
		ss += (c - mean) * (c - mean)
	}

	assertClose(t, "population std", cols.StdDev[19].Unwrap(), math.Sqrt(ss/20), 1e-9)
}

func TestComputeBollinger_FlatWindowCollapses(t *testing.T) {
	closes := make([]float64, 0, 35)
	for i := 0; i < 15; i++ {
		closes = append(closes, 90+float64(i)*0.7)
	}
	for i := 0; i < 20; i++ {
		closes = append(closes, 101.3)
	}

	cols, _ := ComputeBollinger(closes, 20, 2)
	last := len(closes) - 1

	if cols.SMA[last].Unwrap() != 101.3 {
		t.Errorf("expected SMA exactly 101.3, got %v", cols.SMA[last].Unwrap())
	}
	if cols.Upper[last].Unwrap() != cols.SMA[last].Unwrap() || cols.Lower[last].Unwrap() != cols.SMA[last].Unwrap() {
		t.Errorf("expected collapsed bands, got upper %v lower %v", cols.Upper[last].Unwrap(), cols.Lower[last].Unwrap())
	}
}

func TestComputeBollinger_ShortAndEmpty(t *testing.T) {
	cols, err := ComputeBollinger([]float64{1, 2, 3}, 20, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(cols.SMA) != 3 || cols.SMA.Defined() != 0 || cols.Upper.Defined() != 0 {
		t.Error("short series should produce all None columns of equal length")
	}

	cols, err = ComputeBollinger(nil, 20, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(cols.SMA) != 0 || len(cols.Lower) != 0 {
		t.Error("empty series should produce empty columns")
	}
}

func TestBollinger_Reset(t *testing.T) {
	bb, _ := NewBollinger(2, 2)
	bb.Add(1)
	bb.Add(3)
	if !bb.IsReady() || bb.Upper().IsNone() {
		t.Fatal("expected ready bands")
	}

	bb.Reset()
	if bb.IsReady() || bb.Value().IsSome() || bb.Lower().IsSome() || bb.BarsProcessed() != 0 {
		t.Error("expected cleared state after reset")
	}
}
