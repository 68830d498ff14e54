package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureNotifier) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, text)
	return nil
}

func (c *captureNotifier) SendWithRetry(ctx context.Context, text string, _ int) error {
	return c.Send(ctx, text)
}

func (c *captureNotifier) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

func trendBars(n int, step float64) []model.PriceBar {
	bars := make([]model.PriceBar, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.PriceBar{
			Date:  start.AddDate(0, 0, i).Format(model.DateLayout),
			Close: 200 + step*float64(i),
		}
	}
	return bars
}

func newTestScheduler(t *testing.T) (*Scheduler, *captureNotifier) {
	t.Helper()
	f := &collector.MockFetcher{
		Known: []string{"AAPL"},
		End:   time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		Bars: map[string][]model.PriceBar{
			"UP":   trendBars(40, 1),
			"DOWN": trendBars(40, -1),
		},
	}
	m := metrics.New()
	col := collector.NewCollector(f, store.New(model.Period3M), nil, m)
	n := &captureNotifier{}
	return NewScheduler(context.Background(), col, n, nil, m), n
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.RegisterAll("0 */15 * * * *", "0 0 * * * *"))
	assert.Len(t, s.Cron.Entries(), 2)
	assert.Error(t, s.RegisterAll("not a cron", "0 0 * * * *"))
}

func TestCheckAlerts_OncePerStatusChange(t *testing.T) {
	s, n := newTestScheduler(t)

	s.CheckAlerts()
	assert.Empty(t, n.messages(), "no symbol loaded")

	require.NoError(t, s.Collector.Load(context.Background(), "UP"))
	s.CheckAlerts()
	s.CheckAlerts()
	require.Len(t, n.messages(), 1)
	assert.Contains(t, n.messages()[0], "UP")
	assert.Contains(t, n.messages()[0], "overbought")

	require.NoError(t, s.Collector.Load(context.Background(), "DOWN"))
	s.CheckAlerts()
	require.Len(t, n.messages(), 2)
	assert.Contains(t, n.messages()[1], "oversold")
}

func TestRefreshTask_NoSymbol(t *testing.T) {
	s, n := newTestScheduler(t)
	s.RunRefreshNow()
	assert.Zero(t, s.Store.Snapshot().Version)
	assert.Empty(t, n.messages())

	require.NoError(t, s.Collector.Load(context.Background(), "UP"))
	v := s.Store.Snapshot().Version
	s.RunRefreshNow()
	assert.Greater(t, s.Store.Snapshot().Version, v)
	assert.Len(t, n.messages(), 1)
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/status"), "No symbol loaded")
	assert.Equal(t, "Usage: /load SYMBOL", s.HandleCommand(ctx, "/load"))

	reply := s.HandleCommand(ctx, "/load aapl")
	assert.Contains(t, reply, "AAPL | 3M")
	assert.Contains(t, reply, "Sentiment")
	assert.Equal(t, "AAPL", s.Store.Symbol())

	reply = s.HandleCommand(ctx, "/period 1w")
	assert.Contains(t, reply, "AAPL | 1W")
	assert.Len(t, s.Store.Prices(), 5)

	reply = s.HandleCommand(ctx, "/toggle RSI")
	assert.Contains(t, reply, "✅ rsi")
	assert.True(t, s.Store.Settings().RSI)

	assert.Contains(t, s.HandleCommand(ctx, "/toggle vwap"), "unknown indicator")
	assert.Contains(t, s.HandleCommand(ctx, "/period 5Y"), "unknown time period")

	assert.Equal(t, collector.NoDataMessage("ZZZZ"), s.HandleCommand(ctx, "/load zzzz"))

	assert.Equal(t, "Cleared.", s.HandleCommand(ctx, "/reset"))
	assert.Empty(t, s.Store.Symbol())

	assert.Contains(t, s.HandleCommand(ctx, "hello"), "Commands:")
}
