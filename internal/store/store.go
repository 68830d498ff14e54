// Package store holds the single source of truth for the market view.
//
// Every mutation builds a new MarketState and swaps it in whole, so a
// snapshot obtained from the Store never changes afterwards and change can be
// detected by comparing pointers or versions.
package store

import (
	"sync"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// Store owns the MarketState of one session.
type Store struct {
	mu      sync.RWMutex
	state   *MarketState
	subs    map[int]chan *MarketState
	nextSub int
}

// New creates a Store with empty defaults and the given initial period.
func New(period model.TimePeriod) *Store {
	if period.Lookback() == 0 {
		period = model.DefaultPeriod
	}
	return &Store{
		state: initialState(period),
		subs:  make(map[int]chan *MarketState),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() *MarketState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update applies fn to a copy of the current state and publishes the copy.
// fn must replace, not modify, the slices it finds in next.
func (s *Store) Update(fn func(next *MarketState)) *MarketState {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.state
	fn(&next)
	next.Version = s.state.Version + 1
	s.state = &next

	for _, ch := range s.subs {
		publish(ch, s.state)
	}
	return s.state
}

// Subscribe returns a channel that receives the latest snapshot after every
// update. Slow readers only see the most recent snapshot. Call cancel to stop.
func (s *Store) Subscribe() (<-chan *MarketState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan *MarketState, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func publish(ch chan *MarketState, st *MarketState) {
	select {
	case ch <- st:
		return
	default:
	}
	// drop the stale snapshot
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- st:
	default:
	}
}

// SetSymbol selects symbol.
func (s *Store) SetSymbol(symbol string) {
	s.Update(func(next *MarketState) { next.Symbol = symbol })
}

// SetPriceSeries stores a copy of bars. Indicators are not recomputed.
func (s *Store) SetPriceSeries(bars []model.PriceBar) {
	prices := make([]model.PriceBar, len(bars))
	copy(prices, bars)
	s.Update(func(next *MarketState) { next.Prices = prices })
}

// SetIndicators stores a computed indicator result.
func (s *Store) SetIndicators(res calculator.Result) {
	s.Update(func(next *MarketState) { next.Indicators = res })
}

// SetPeriod selects the time window.
func (s *Store) SetPeriod(period model.TimePeriod) error {
	if period.Lookback() == 0 {
		return model.ErrUnknownPeriod
	}
	s.Update(func(next *MarketState) { next.Period = period })
	return nil
}

// ToggleIndicator flips the enabled flag of key and nothing else.
func (s *Store) ToggleIndicator(key model.IndicatorKey) error {
	if _, err := s.Snapshot().Settings.Toggled(key); err != nil {
		return err
	}
	s.Update(func(next *MarketState) {
		next.Settings, _ = next.Settings.Toggled(key)
	})
	return nil
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.Update(func(next *MarketState) { next.Loading = loading })
}

// SetError sets the user-facing error message. An empty message clears it.
func (s *Store) SetError(msg string) {
	s.Update(func(next *MarketState) { next.Error = msg })
}

// Reset clears the symbol, prices, indicators and error. Settings, period
// and the loading flag are kept.
func (s *Store) Reset() {
	s.Update(func(next *MarketState) {
		next.Symbol = ""
		next.Prices = []model.PriceBar{}
		next.Indicators = calculator.Result{}
		next.Error = ""
	})
}

// Read-only views over the current snapshot.

func (s *Store) Symbol() string                    { return s.Snapshot().Symbol }
func (s *Store) Prices() []model.PriceBar          { return s.Snapshot().Prices }
func (s *Store) Indicators() calculator.Result     { return s.Snapshot().Indicators }
func (s *Store) Settings() model.IndicatorSettings { return s.Snapshot().Settings }
func (s *Store) Period() model.TimePeriod          { return s.Snapshot().Period }
func (s *Store) Loading() bool                     { return s.Snapshot().Loading }
func (s *Store) Error() string                     { return s.Snapshot().Error }

// LatestPrice returns the last bar of the current series.
func (s *Store) LatestPrice() (model.PriceBar, bool) {
	return s.Snapshot().LatestPrice()
}
