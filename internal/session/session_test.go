package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStateMissingFile(t *testing.T) {
	st, err := LoadState(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, State{}, *st)
}

func TestLoadStateBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err := NewManager(path)
	assert.Error(t, err)
}

func TestObserveSavesSettledChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	m, err := NewManager(path)
	require.NoError(t, err)

	snap := &store.MarketState{Symbol: "AAPL", Period: model.Period6M, Settings: model.DefaultSettings()}

	saved, err := m.Observe(&store.MarketState{Symbol: "AAPL", Loading: true})
	require.NoError(t, err)
	assert.False(t, saved, "loading snapshots are skipped")
	saved, err = m.Observe(&store.MarketState{Symbol: "ZZZZ", Error: "no data"})
	require.NoError(t, err)
	assert.False(t, saved, "failed loads are skipped")

	saved, err = m.Observe(snap)
	require.NoError(t, err)
	assert.True(t, saved)
	saved, err = m.Observe(snap)
	require.NoError(t, err)
	assert.False(t, saved, "unchanged view is not rewritten")

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	got := reloaded.GetState()
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, model.Period6M, got.Period)
	assert.Equal(t, model.DefaultSettings(), got.Settings)
	assert.False(t, got.UpdatedAt.IsZero())
}

func newCollector() *collector.Collector {
	f := &collector.MockFetcher{
		Known: collector.DefaultSymbols,
		End:   time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
	}
	return collector.NewCollector(f, store.New(model.Period3M), nil, nil)
}

func TestRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	settings := model.DefaultSettings()
	settings.RSI = true
	require.NoError(t, SaveState(path, &State{Symbol: "MSFT", Period: model.Period1M, Settings: settings}))

	m, err := NewManager(path)
	require.NoError(t, err)
	col := newCollector()
	require.NoError(t, m.Restore(context.Background(), col))

	snap := col.Store.Snapshot()
	assert.Equal(t, "MSFT", snap.Symbol)
	assert.Equal(t, model.Period1M, snap.Period)
	assert.Len(t, snap.Prices, 21)
	assert.True(t, snap.Settings.RSI)
}

func TestRestoreEmptySession(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	col := newCollector()
	require.NoError(t, m.Restore(context.Background(), col))
	assert.Zero(t, col.Store.Snapshot().Version)
}

func TestTrack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m, err := NewManager(path)
	require.NoError(t, err)
	col := newCollector()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := m.Track(ctx, col.Store)

	require.NoError(t, col.Load(ctx, "nvda"))
	assert.Eventually(t, func() bool {
		return m.GetState().Symbol == "NVDA"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Track did not stop")
	}
}
