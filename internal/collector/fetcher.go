package collector

import (
	"context"

	"StockLens/internal/model"
)

// Fetcher supplies daily bars for a symbol and time window.
// An empty result with a nil error means the symbol has no data.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, period model.TimePeriod) ([]model.PriceBar, error)
	Name() string
}

// SymbolLister is implemented by fetchers that know which symbols they serve.
type SymbolLister interface {
	Symbols(ctx context.Context) ([]string, error)
}

// DefaultSymbols is offered when a fetcher cannot list its own symbols.
var DefaultSymbols = []string{"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "META", "NVDA"}

// ListSymbols asks f for its symbols, falling back to DefaultSymbols.
func ListSymbols(ctx context.Context, f Fetcher) ([]string, error) {
	if l, ok := f.(SymbolLister); ok {
		return l.Symbols(ctx)
	}
	out := make([]string, len(DefaultSymbols))
	copy(out, DefaultSymbols)
	return out, nil
}

// trim keeps the most recent lookback bars of period.
func trim(bars []model.PriceBar, period model.TimePeriod) []model.PriceBar {
	if n := period.Lookback(); n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
