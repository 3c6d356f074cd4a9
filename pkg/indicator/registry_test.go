package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(func() (Calculator, error) { return NewRSI(14) })
	require.NoError(t, err)

	calc, err := registry.Get("rsi_14")
	require.NoError(t, err)
	assert.Equal(t, "rsi_14", calc.Name())

	// each Get returns a fresh instance
	other, err := registry.Get("rsi_14")
	require.NoError(t, err)
	assert.NotSame(t, calc, other)

	_, err = registry.Get("missing")
	assert.Error(t, err)
}

func TestRegistry_Duplicate(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(func() (Calculator, error) { return NewEMA(12) }))

	err := registry.Register(func() (Calculator, error) { return NewEMA(12) })
	assert.ErrorIs(t, err, errDuplicateCalculator)
}

func TestRegistry_InvalidFactory(t *testing.T) {
	registry := NewRegistry()
	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(func() (Calculator, error) { return NewSMA(0) }))
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(func() (Calculator, error) { return NewSMA(20) }))

	require.NoError(t, registry.Unregister("sma_20"))
	assert.Empty(t, registry.List())
	assert.Error(t, registry.Unregister("sma_20"))
}

func TestNewDefaultRegistry(t *testing.T) {
	registry, err := NewDefaultRegistry(DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"bb_20_2",
		"ema_12",
		"ema_26",
		"macd_12_26_9",
		"rsi_14",
		"sma_20",
		"techan_sma_20",
	}, registry.List())

	p := DefaultParams()
	p.MACDSlow = p.MACDFast
	registry, err = NewDefaultRegistry(p)
	require.NoError(t, err)
	assert.Len(t, registry.List(), 6)

	p.RSIPeriod = 0
	_, err = NewDefaultRegistry(p)
	assert.ErrorIs(t, err, models.ErrInvalidPeriod)
}

func TestRegistry_NewAllStreams(t *testing.T) {
	registry, err := NewDefaultRegistry(DefaultParams())
	require.NoError(t, err)

	calcs, err := registry.NewAll()
	require.NoError(t, err)
	require.Len(t, calcs, 7)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range testCloses(40) {
		bar := &models.Bar{Date: start.AddDate(0, 0, i), Close: c}
		for _, calc := range calcs {
			_, err := calc.Update(bar)
			require.NoError(t, err)
		}
	}

	for _, calc := range calcs {
		assert.True(t, calc.IsReady(), calc.Name())
		assert.True(t, calc.Value().IsSome(), calc.Name())
	}
}
