package toplist

import (
	"context"
	"sync"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

// MemoryStore keeps the result of the latest run for the API.
// It is replaced wholesale on every update, nothing is kept across runs.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshot  *models.ToplistSnapshot
	annotated []models.AnnotatedSeries
	bySymbol  map[string]int
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bySymbol: make(map[string]int)}
}

// Publish implements Publisher
func (s *MemoryStore) Publish(ctx context.Context, update Update) error {
	if err := update.Snapshot.Validate(); err != nil {
		return err
	}

	snapshot := update.Snapshot
	rankings := make([]models.ScreeningResult, len(snapshot.Rankings))
	copy(rankings, snapshot.Rankings)
	snapshot.Rankings = rankings

	annotated := make([]models.AnnotatedSeries, len(update.Annotated))
	copy(annotated, update.Annotated)
	bySymbol := make(map[string]int, len(annotated))
	for i, a := range annotated {
		bySymbol[a.Symbol] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &snapshot
	s.annotated = annotated
	s.bySymbol = bySymbol
	return nil
}

// Snapshot returns the latest shortlist, false before the first run
func (s *MemoryStore) Snapshot() (models.ToplistSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return models.ToplistSnapshot{}, false
	}
	return *s.snapshot, true
}

// Instruments returns the annotated series of the latest run in ingest order
func (s *MemoryStore) Instruments() []models.AnnotatedSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AnnotatedSeries, len(s.annotated))
	copy(out, s.annotated)
	return out
}

// Instrument returns the annotated series for symbol
func (s *MemoryStore) Instrument(symbol string) (models.AnnotatedSeries, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.bySymbol[symbol]
	if !ok {
		return models.AnnotatedSeries{}, false
	}
	return s.annotated[i], true
}
