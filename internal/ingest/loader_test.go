package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

const sampleCSV = `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-03,101,103,100,102.5,102.5,1200
2024-01-02,100,102,99,101,101,1000
2024-01-04,102.5,104,101,103,103,900
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCSV_SortsAndParses(t *testing.T) {
	s, err := ParseCSV("AAA", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, "AAA", s.Symbol)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{101, 102.5, 103}, s.Closes())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), s.Bars[0].Date)
	assert.Equal(t, 1000.0, s.Bars[0].Volume)
	assert.Equal(t, 99.0, s.Bars[0].Low)
}

func TestParseCSV_DateLayouts(t *testing.T) {
	data := "Date,Close\n01/05/2024,10\n2024-01-06 00:00:00,11\n2024-01-07T00:00:00Z,12\n"
	s, err := ParseCSV("AAA", strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), s.Bars[0].Date)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	s, err := ParseCSV("EMPTY", strings.NewReader("Date,Open,High,Low,Close,Volume\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestParseCSV_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad date", "Date,Close\nyesterday,10\n"},
		{"non numeric close", "Date,Close\n2024-01-02,abc\n"},
		{"missing close column", "Date,Open\n2024-01-02,10\n"},
		{"duplicate date", "Date,Close\n2024-01-02,10\n2024-01-02,11\n"},
		{"negative close", "Date,Close\n2024-01-02,-10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV("BAD", strings.NewReader(tt.data))
			assert.ErrorIs(t, err, models.ErrMalformedInput)
		})
	}
}

func TestSymbolFromPath(t *testing.T) {
	assert.Equal(t, "AAPL", SymbolFromPath("/data/AAPL.csv"))
	assert.Equal(t, "BRK.B", SymbolFromPath("BRK.B.csv"))
	assert.Equal(t, "MSFT", SymbolFromPath("MSFT"))
}

func TestCSVLoader_LoadOrdersByFileName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ZZZ.csv", sampleCSV)
	writeFile(t, dir, "AAA.csv", sampleCSV)
	writeFile(t, dir, "notes.txt", "ignored")

	var seen []string
	loader := NewCSVLoader(dir, "")
	loader.OnFile = func(path string, bars int) {
		seen = append(seen, filepath.Base(path))
		assert.Equal(t, 3, bars)
	}

	series, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "AAA", series[0].Symbol)
	assert.Equal(t, "ZZZ", series[1].Symbol)
	assert.Equal(t, []string{"AAA.csv", "ZZZ.csv"}, seen)
}

func TestCSVLoader_MalformedFileFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "AAA.csv", sampleCSV)
	writeFile(t, dir, "BAD.csv", "Date,Close\nnot-a-date,1\n")

	_, err := NewCSVLoader(dir, "*.csv").Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMalformedInput)
	assert.Contains(t, err.Error(), "BAD.csv")
}

func TestCSVLoader_EmptyDirectory(t *testing.T) {
	series, err := NewCSVLoader(t.TempDir(), "").Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestCSVLoader_MissingDirectory(t *testing.T) {
	_, err := NewCSVLoader(filepath.Join(t.TempDir(), "missing"), "").Load(context.Background())
	assert.Error(t, err)
}

func TestCSVLoader_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "AAA.csv", sampleCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVLoader(dir, "").Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryLoader(t *testing.T) {
	loader := &MemoryLoader{Series: []models.Series{{Symbol: "A"}, {Symbol: "B"}}}
	series, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, series, 2)

	series[0].Symbol = "changed"
	assert.Equal(t, "A", loader.Series[0].Symbol)
}
