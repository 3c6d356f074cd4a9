package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

// DefaultPattern matches the daily price files
const DefaultPattern = "*.csv"

// Loader produces the instrument collection in a stable order
type Loader interface {
	Load(ctx context.Context) ([]models.Series, error)
}

// CSVLoader loads every file in Dir matching Pattern, one instrument per file.
// Files are read one after another in file name order.
type CSVLoader struct {
	Dir     string
	Pattern string

	// OnFile is called after each file is loaded
	OnFile func(path string, bars int)
}

// NewCSVLoader creates a loader for dir. An empty pattern means DefaultPattern.
func NewCSVLoader(dir, pattern string) *CSVLoader {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &CSVLoader{Dir: dir, Pattern: pattern}
}

// Files returns the matching files sorted by name
func (l *CSVLoader) Files() ([]string, error) {
	info, err := os.Stat(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", l.Dir)
	}

	pattern := l.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}

	files, err := filepath.Glob(filepath.Join(l.Dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(files)
	return files, nil
}

// Load reads every matching file. The first malformed file aborts the load.
func (l *CSVLoader) Load(ctx context.Context) ([]models.Series, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}

	series := make([]models.Series, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[s.Symbol]; dup {
			return nil, fmt.Errorf("symbol %s defined by both %s and %s: %w", s.Symbol, prev, path, models.ErrMalformedInput)
		}
		seen[s.Symbol] = path

		logger.Debug("Loaded instrument",
			logger.String("symbol", s.Symbol),
			logger.Int("bars", s.Len()),
		)
		if l.OnFile != nil {
			l.OnFile(path, s.Len())
		}
		series = append(series, s)
	}

	return series, nil
}

// MemoryLoader returns a fixed instrument collection
type MemoryLoader struct {
	Series []models.Series
}

// Load returns a copy of the collection
func (m *MemoryLoader) Load(ctx context.Context) ([]models.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Series, len(m.Series))
	copy(out, m.Series)
	return out, nil
}
