package store

import (
	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// MarketState is one immutable snapshot of the market view.
// Snapshots handed out by the Store must not be modified.
type MarketState struct {
	Symbol     string                  `json:"symbol"` // empty when no symbol is selected
	Prices     []model.PriceBar        `json:"prices"`
	Indicators calculator.Result       `json:"indicators"`
	Settings   model.IndicatorSettings `json:"settings"`
	Period     model.TimePeriod        `json:"period"`
	Loading    bool                    `json:"loading"`
	Error      string                  `json:"error,omitempty"`
	Version    uint64                  `json:"version"`
}

func initialState(period model.TimePeriod) *MarketState {
	return &MarketState{
		Prices:   []model.PriceBar{},
		Settings: model.DefaultSettings(),
		Period:   period,
	}
}

// HasSymbol reports whether a symbol is selected.
func (st *MarketState) HasSymbol() bool { return st.Symbol != "" }

// LatestPrice returns the last bar, or false when the series is empty.
func (st *MarketState) LatestPrice() (model.PriceBar, bool) {
	if len(st.Prices) == 0 {
		return model.PriceBar{}, false
	}
	return st.Prices[len(st.Prices)-1], true
}

// EnabledSeries returns the computed series of every enabled indicator.
// Indicators that have not been computed are left out.
func (st *MarketState) EnabledSeries() map[model.IndicatorKey]calculator.Series {
	out := make(map[model.IndicatorKey]calculator.Series)
	for _, key := range st.Settings.EnabledKeys() {
		if s, ok := st.Indicators.Series(key); ok {
			out[key] = s
		}
	}
	return out
}
