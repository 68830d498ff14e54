package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/id"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
	"StockLens/internal/store"
)

var (
	// ErrNoData is returned when the fetcher has no bars for the symbol.
	ErrNoData = errors.New("no data for symbol")
	// ErrStale is returned when a newer request superseded this one.
	ErrStale = errors.New("superseded by a newer request")
	// ErrEmptySymbol is returned for a blank symbol.
	ErrEmptySymbol = errors.New("symbol is required")
)

// NoDataMessage is the user-facing error for an empty series.
func NoDataMessage(symbol string) string {
	return fmt.Sprintf("No data available for symbol: %s. Please try another symbol.", symbol)
}

// FailureMessage is the user-facing error for a failed fetch.
func FailureMessage(symbol string) string {
	return fmt.Sprintf("Failed to load data for %s. Please check the symbol and try again.", symbol)
}

// Collector orchestrates data fetching, indicator computation and store updates.
// Each Load takes a request token; only the result of the latest token is
// applied, and starting a new Load cancels the one in flight.
type Collector struct {
	Fetcher  Fetcher
	Store    *store.Store
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics

	mu     sync.Mutex
	latest uint64
	cancel context.CancelFunc
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, st *store.Store, rec recorder.Recorder, m *metrics.Metrics) *Collector {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Collector{Fetcher: fetcher, Store: st, Recorder: rec, Metrics: m}
}

// begin issues a new request token, cancels the previous request and marks
// the store as loading. A non-empty period is selected in the same update,
// so no snapshot pairs the new period with an older request.
func (c *Collector) begin(ctx context.Context, symbol string, period model.TimePeriod) (uint64, model.TimePeriod, context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest++
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	st := c.Store.Update(func(next *store.MarketState) {
		next.Symbol = symbol
		if period != "" {
			next.Period = period
		}
		next.Loading = true
		next.Error = ""
	})
	return c.latest, st.Period, ctx
}

// Load fetches symbol for the current period, computes its indicators and
// publishes the result. The returned error is ErrStale when a newer request
// won, ErrNoData for an empty series, or the wrapped fetch failure.
func (c *Collector) Load(ctx context.Context, symbol string) error {
	return c.load(ctx, symbol, "")
}

func (c *Collector) load(ctx context.Context, symbol string, period model.TimePeriod) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return ErrEmptySymbol
	}

	token, period, fetchCtx := c.begin(ctx, symbol, period)
	reqID := id.New()
	log.Printf("[INFO] load %s %s (req %s)", symbol, period, reqID)

	start := time.Now()
	bars, err := c.Fetcher.FetchBars(fetchCtx, symbol, period)
	c.Metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		err = model.ValidateSeries(bars)
	}

	evt := &recorder.LoadEvent{
		RequestID: reqID,
		Symbol:    symbol,
		Period:    string(period),
		Bars:      len(bars),
	}
	var res calculator.Result
	applied, loadErr := c.apply(token, symbol, bars, err, &res)
	evt.Duration = time.Since(start)

	switch {
	case errors.Is(loadErr, ErrStale):
		evt.Outcome = recorder.OutcomeStale
		c.Metrics.StaleResponses.Inc()
		log.Printf("[INFO] discarding stale response for %s (req %s)", symbol, reqID)
	case errors.Is(loadErr, ErrNoData):
		evt.Outcome = recorder.OutcomeNoData
		log.Printf("[WARN] no data for %s (req %s)", symbol, reqID)
	case loadErr != nil:
		evt.Outcome = recorder.OutcomeError
		evt.Error = loadErr.Error()
		log.Printf("[ERROR] load %s (req %s): %v", symbol, reqID, loadErr)
	default:
		evt.Outcome = recorder.OutcomeOK
	}
	c.Metrics.LoadsTotal.WithLabelValues(evt.Outcome).Inc()
	c.Metrics.StoreVersion.Set(float64(c.Store.Snapshot().Version))

	if err := c.Recorder.RecordLoad(evt); err != nil {
		log.Printf("[ERROR] record load: %v", err)
	}
	if applied && loadErr == nil {
		snap := recorder.SnapshotOf(reqID, symbol, period, bars, res)
		if err := c.Recorder.RecordSnapshot(snap); err != nil {
			log.Printf("[ERROR] record snapshot: %v", err)
		}
	}
	return loadErr
}

// apply publishes the outcome of request token in a single store update,
// unless a newer request has been issued since.
func (c *Collector) apply(token uint64, symbol string, bars []model.PriceBar, fetchErr error, res *calculator.Result) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.latest {
		return false, ErrStale
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if fetchErr != nil {
		c.Store.Update(func(next *store.MarketState) {
			next.Error = FailureMessage(symbol)
			next.Loading = false
		})
		return true, fmt.Errorf("fetch %s: %w", symbol, fetchErr)
	}

	if len(bars) == 0 {
		c.Store.Update(func(next *store.MarketState) {
			next.Prices = []model.PriceBar{}
			next.Indicators = calculator.Result{}
			next.Error = NoDataMessage(symbol)
			next.Loading = false
		})
		return true, ErrNoData
	}

	start := time.Now()
	*res = calculator.ComputeBars(bars)
	c.Metrics.ComputeDuration.Observe(time.Since(start).Seconds())

	prices := make([]model.PriceBar, len(bars))
	copy(prices, bars)
	c.Store.Update(func(next *store.MarketState) {
		next.Prices = prices
		next.Indicators = *res
		next.Error = ""
		next.Loading = false
	})
	return true, nil
}

// ChangePeriod selects period and reloads the current symbol, if any. A
// request still in flight for the previous period becomes stale.
func (c *Collector) ChangePeriod(ctx context.Context, period model.TimePeriod) error {
	if period.Lookback() == 0 {
		return fmt.Errorf("%w: %q", model.ErrUnknownPeriod, period)
	}
	if symbol := c.Store.Symbol(); symbol != "" {
		return c.load(ctx, symbol, period)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.Store.SetPeriod(period)
}

// Refresh reloads the current symbol. It is a no-op without one.
func (c *Collector) Refresh(ctx context.Context) error {
	symbol := c.Store.Symbol()
	if symbol == "" {
		return nil
	}
	return c.Load(ctx, symbol)
}

// Reset abandons any request in flight and clears the current symbol.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.Store.Update(func(next *store.MarketState) {
		next.Symbol = ""
		next.Prices = []model.PriceBar{}
		next.Indicators = calculator.Result{}
		next.Error = ""
		next.Loading = false
	})
}
