package toplist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedkhairy/momentum-screener/internal/models"
)

func testUpdate(runID string, symbols ...string) Update {
	rankings := make([]models.ScreeningResult, 0, len(symbols))
	annotated := make([]models.AnnotatedSeries, 0, len(symbols))
	for i, sym := range symbols {
		rankings = append(rankings, models.ScreeningResult{
			Symbol: sym, Rank: i + 1, RSI: 50, MACD: 1, MACDSignal: 0.5, Strength: 0.5,
		})
		annotated = append(annotated, models.NewAnnotatedSeries(models.Series{
			Symbol: sym,
			Bars:   []models.Bar{{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 10}},
		}))
	}
	return Update{
		Snapshot: models.ToplistSnapshot{
			RunID:       runID,
			Rankings:    rankings,
			Instruments: len(symbols),
			Timestamp:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		Annotated: annotated,
	}
}

func TestMemoryStore_EmptyBeforeFirstRun(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Snapshot()
	assert.False(t, ok)
	assert.Empty(t, store.Instruments())

	_, ok = store.Instrument("AAA")
	assert.False(t, ok)
}

func TestMemoryStore_Publish(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Publish(context.Background(), testUpdate("run-1", "BBB", "AAA")))

	snap, ok := store.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, []string{"BBB", "AAA"}, snap.Symbols())

	instruments := store.Instruments()
	require.Len(t, instruments, 2)
	assert.Equal(t, "BBB", instruments[0].Symbol)

	a, ok := store.Instrument("AAA")
	require.True(t, ok)
	assert.Equal(t, "AAA", a.Symbol)
}

func TestMemoryStore_ReplacesPreviousRun(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Publish(ctx, testUpdate("run-1", "AAA", "BBB")))
	require.NoError(t, store.Publish(ctx, testUpdate("run-2", "CCC")))

	snap, ok := store.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "run-2", snap.RunID)

	_, ok = store.Instrument("AAA")
	assert.False(t, ok)
	assert.Len(t, store.Instruments(), 1)
}

func TestMemoryStore_CopiesRankings(t *testing.T) {
	store := NewMemoryStore()
	update := testUpdate("run-1", "AAA")
	require.NoError(t, store.Publish(context.Background(), update))

	update.Snapshot.Rankings[0].Symbol = "MUTATED"

	snap, _ := store.Snapshot()
	assert.Equal(t, "AAA", snap.Rankings[0].Symbol)
}

func TestMemoryStore_RejectsInvalidSnapshot(t *testing.T) {
	store := NewMemoryStore()
	err := store.Publish(context.Background(), Update{})
	assert.Error(t, err)

	_, ok := store.Snapshot()
	assert.False(t, ok)
}

func TestRedisPublisher_Publish(t *testing.T) {
	client := NewMockRedisClient()
	pub := NewRedisPublisher(client, "")

	require.NoError(t, pub.Publish(context.Background(), testUpdate("run-7", "AAA", "BBB")))

	msgs := client.Published()
	require.Len(t, msgs, 1)
	assert.Equal(t, DefaultChannel, msgs[0].Channel)

	payload, ok := msgs[0].Message.(string)
	require.True(t, ok)
	snap, err := models.ToplistSnapshotFromJSON([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "run-7", snap.RunID)
	assert.Equal(t, []string{"AAA", "BBB"}, snap.Symbols())
}

func TestRedisPublisher_CustomChannel(t *testing.T) {
	client := NewMockRedisClient()
	pub := NewRedisPublisher(client, "custom")

	require.NoError(t, pub.Publish(context.Background(), testUpdate("run-1", "AAA")))
	assert.Equal(t, "custom", client.Published()[0].Channel)
}

func TestRedisPublisher_ClientError(t *testing.T) {
	client := NewMockRedisClient()
	client.PublishErr = errors.New("connection refused")
	pub := NewRedisPublisher(client, "")

	err := pub.Publish(context.Background(), testUpdate("run-1", "AAA"))
	assert.ErrorContains(t, err, "connection refused")
}

func TestMultiPublisher_CallsAllPublishers(t *testing.T) {
	boom := errors.New("boom")
	var calls []string

	multi := MultiPublisher{
		PublisherFunc(func(ctx context.Context, u Update) error {
			calls = append(calls, "first")
			return boom
		}),
		nil,
		PublisherFunc(func(ctx context.Context, u Update) error {
			calls = append(calls, "second")
			return nil
		}),
	}

	err := multi.Publish(context.Background(), testUpdate("run-1", "AAA"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestMultiPublisher_Empty(t *testing.T) {
	assert.NoError(t, MultiPublisher{}.Publish(context.Background(), testUpdate("run-1")))
}
