package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// dateLayouts are tried in order when parsing the Date column
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// csvDate parses the Date column
type csvDate struct {
	t time.Time
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (d *csvDate) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.t = t
			return nil
		}
	}
	return fmt.Errorf("unrecognised date %q: %w", s, models.ErrInvalidDate)
}

// csvRow is one line of a daily price file. Columns other than these are ignored.
type csvRow struct {
	Date   csvDate `csv:"Date"`
	Open   float64 `csv:"Open"`
	High   float64 `csv:"High"`
	Low    float64 `csv:"Low"`
	Close  float64 `csv:"Close"`
	Volume float64 `csv:"Volume"`
}

func (r *csvRow) toBar() models.Bar {
	return models.Bar{
		Date:   r.Date.t,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
}

// SymbolFromPath returns the file name without directory and extension
func SymbolFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseCSV reads a daily price table for symbol. The result is sorted by date.
// Any parse or validation failure wraps models.ErrMalformedInput.
func ParseCSV(symbol string, r io.Reader) (models.Series, error) {
	var rows []*csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return models.Series{}, fmt.Errorf("%s: %w: %w", symbol, models.ErrMalformedInput, err)
	}
	return toSeries(symbol, rows)
}

// LoadFile reads one CSV file. The symbol is the file name without extension.
func LoadFile(path string) (models.Series, error) {
	symbol := SymbolFromPath(path)

	f, err := os.Open(path)
	if err != nil {
		return models.Series{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var rows []*csvRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return models.Series{}, fmt.Errorf("%s: %w: %w", filepath.Base(path), models.ErrMalformedInput, err)
	}
	return toSeries(symbol, rows)
}

func toSeries(symbol string, rows []*csvRow) (models.Series, error) {
	bars := make([]models.Bar, len(rows))
	for i, row := range rows {
		bars[i] = row.toBar()
	}

	series, err := models.NewSeries(symbol, bars)
	if err != nil {
		return models.Series{}, fmt.Errorf("%w: %w", models.ErrMalformedInput, err)
	}
	return series, nil
}
