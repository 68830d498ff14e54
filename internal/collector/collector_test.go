package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnd = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

func newTestCollector(f Fetcher) (*Collector, *store.Store) {
	st := store.New(model.Period3M)
	return NewCollector(f, st, nil, metrics.New()), st
}

func TestLoad_Success(t *testing.T) {
	f := &MockFetcher{Known: []string{"AAPL"}, End: testEnd}
	c, st := newTestCollector(f)

	require.NoError(t, c.Load(context.Background(), " aapl "))
	snap := st.Snapshot()
	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Len(t, snap.Prices, 63)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Len(t, snap.Indicators.SMA20, 63)
	require.NotNil(t, snap.Indicators.MACD)
	assert.NoError(t, model.ValidateSeries(snap.Prices))

	latest, ok := st.LatestPrice()
	require.True(t, ok)
	assert.Equal(t, "2024-06-28", latest.Date)
}

func TestLoad_NoData(t *testing.T) {
	f := &MockFetcher{Known: []string{"AAPL"}, End: testEnd}
	c, st := newTestCollector(f)
	require.NoError(t, c.Load(context.Background(), "AAPL"))

	err := c.Load(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNoData)
	snap := st.Snapshot()
	assert.Equal(t, NoDataMessage("ZZZZ"), snap.Error)
	assert.Empty(t, snap.Prices)
	assert.True(t, snap.Indicators.Empty())
	assert.False(t, snap.Loading)
}

func TestLoad_Failure(t *testing.T) {
	boom := errors.New("connection refused")
	c, st := newTestCollector(&MockFetcher{Err: boom})

	err := c.Load(context.Background(), "MSFT")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, FailureMessage("MSFT"), st.Error())
	assert.False(t, st.Loading())
}

func TestLoad_UnorderedSeriesIsFailure(t *testing.T) {
	f := &MockFetcher{Bars: map[string][]model.PriceBar{
		"BAD": {{Date: "2024-01-03", Close: 1}, {Date: "2024-01-02", Close: 2}},
	}}
	c, st := newTestCollector(f)

	err := c.Load(context.Background(), "BAD")
	assert.ErrorIs(t, err, model.ErrUnorderedSeries)
	assert.Equal(t, FailureMessage("BAD"), st.Error())
}

func TestLoad_EmptySymbol(t *testing.T) {
	c, _ := newTestCollector(NewMockFetcher())
	assert.ErrorIs(t, c.Load(context.Background(), "  "), ErrEmptySymbol)
}

func TestLoad_LoadingVisibleDuringFetch(t *testing.T) {
	f := newGateFetcher()
	c, st := newTestCollector(f)

	done := make(chan error)
	go func() { done <- c.Load(context.Background(), "AAPL") }()
	<-f.started

	assert.True(t, st.Loading())
	assert.Equal(t, "AAPL", st.Symbol())

	f.release(model.Period3M)
	require.NoError(t, <-done)
	assert.False(t, st.Loading())
}

func TestChangePeriod_StaleResponseDiscarded(t *testing.T) {
	f := newGateFetcher()
	c, st := newTestCollector(f)

	oldDone := make(chan error)
	go func() { oldDone <- c.Load(context.Background(), "AAPL") }()
	<-f.started

	newDone := make(chan error)
	go func() { newDone <- c.ChangePeriod(context.Background(), model.Period1Y) }()
	<-f.started

	// the newer request resolves first
	f.release(model.Period1Y)
	require.NoError(t, <-newDone)
	assert.Len(t, st.Prices(), 252)

	f.release(model.Period3M)
	assert.ErrorIs(t, <-oldDone, ErrStale)

	snap := st.Snapshot()
	assert.Equal(t, model.Period1Y, snap.Period)
	assert.Len(t, snap.Prices, 252)
	assert.Len(t, snap.Indicators.RSI14, 252)
	assert.False(t, snap.Loading)
	assert.True(t, f.cancelled(model.Period3M), "superseded request context should be cancelled")
}

func TestChangePeriod_OldResponseAfterPeriodSwitch(t *testing.T) {
	f := newGateFetcher()
	c, st := newTestCollector(f)

	oldDone := make(chan error)
	go func() { oldDone <- c.Load(context.Background(), "AAPL") }()
	<-f.started
	before := st.Snapshot().Version

	newDone := make(chan error)
	go func() { newDone <- c.ChangePeriod(context.Background(), model.Period1Y) }()
	<-f.started

	// period and loading flag change in a single update
	snap := st.Snapshot()
	assert.Equal(t, before+1, snap.Version)
	assert.Equal(t, model.Period1Y, snap.Period)
	assert.True(t, snap.Loading)

	// the old response arrives while the new one is still pending
	f.release(model.Period3M)
	assert.ErrorIs(t, <-oldDone, ErrStale)

	snap = st.Snapshot()
	assert.Equal(t, model.Period1Y, snap.Period)
	assert.Empty(t, snap.Prices, "3M bars must not appear under the 1Y label")
	assert.True(t, snap.Loading)
	assert.Empty(t, snap.Error)

	f.release(model.Period1Y)
	require.NoError(t, <-newDone)
	snap = st.Snapshot()
	assert.Len(t, snap.Prices, 252)
	assert.False(t, snap.Loading)
}

func TestChangePeriod_NoSymbol(t *testing.T) {
	f := newGateFetcher()
	c, st := newTestCollector(f)

	require.NoError(t, c.ChangePeriod(context.Background(), model.Period1W))
	assert.Equal(t, model.Period1W, st.Period())
	assert.ErrorIs(t, c.ChangePeriod(context.Background(), "5Y"), model.ErrUnknownPeriod)
}

func TestReset_DiscardsInFlight(t *testing.T) {
	f := newGateFetcher()
	c, st := newTestCollector(f)

	done := make(chan error)
	go func() { done <- c.Load(context.Background(), "AAPL") }()
	<-f.started

	c.Reset()
	f.release(model.Period3M)
	assert.ErrorIs(t, <-done, ErrStale)

	snap := st.Snapshot()
	assert.False(t, snap.HasSymbol())
	assert.Empty(t, snap.Prices)
	assert.False(t, snap.Loading)
}

func TestRefresh(t *testing.T) {
	f := &MockFetcher{Known: []string{"NVDA"}, End: testEnd}
	c, st := newTestCollector(f)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Zero(t, st.Snapshot().Version)

	require.NoError(t, c.Load(context.Background(), "NVDA"))
	v := st.Snapshot().Version
	require.NoError(t, c.Refresh(context.Background()))
	assert.Greater(t, st.Snapshot().Version, v)
}

// gateFetcher blocks each request until its period is released and ignores
// cancellation, so a superseded request can still deliver data late.
type gateFetcher struct {
	started chan struct{}

	mu    sync.Mutex
	gates map[model.TimePeriod]chan struct{}
	ctxs  map[model.TimePeriod]context.Context
}

func newGateFetcher() *gateFetcher {
	return &gateFetcher{
		started: make(chan struct{}, 4),
		gates:   make(map[model.TimePeriod]chan struct{}),
		ctxs:    make(map[model.TimePeriod]context.Context),
	}
}

func (g *gateFetcher) gate(p model.TimePeriod) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[p]
	if !ok {
		ch = make(chan struct{})
		g.gates[p] = ch
	}
	return ch
}

func (g *gateFetcher) release(p model.TimePeriod) { close(g.gate(p)) }

func (g *gateFetcher) cancelled(p model.TimePeriod) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ctxs[p] != nil && g.ctxs[p].Err() != nil
}

func (g *gateFetcher) Name() string { return "gate" }

func (g *gateFetcher) FetchBars(ctx context.Context, symbol string, period model.TimePeriod) ([]model.PriceBar, error) {
	gate := g.gate(period)
	g.mu.Lock()
	g.ctxs[period] = ctx
	g.mu.Unlock()
	g.started <- struct{}{}
	<-gate
	return generateMockBars(symbol, period.Lookback(), testEnd), nil
}
