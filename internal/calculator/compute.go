// Package calculator computes technical indicator series from close prices.
// Every function is pure: no shared state, no errors, and every returned
// series has the same length as its input.
package calculator

import "StockLens/internal/model"

// Standard periods for the computed indicator set.
const (
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// Result holds every indicator computed for one price series.
// The zero Result (no populated series) is what an empty input produces.
type Result struct {
	SMA20 Series      `json:"sma20,omitempty"`
	SMA50 Series      `json:"sma50,omitempty"`
	EMA12 Series      `json:"ema12,omitempty"`
	EMA26 Series      `json:"ema26,omitempty"`
	RSI14 Series      `json:"rsi,omitempty"`
	MACD  *MACDResult `json:"macd,omitempty"`
}

// ComputeAll computes the full indicator set for closes.
func ComputeAll(closes []float64) Result {
	if len(closes) == 0 {
		return Result{}
	}
	return Result{
		SMA20: SMA(closes, 20),
		SMA50: SMA(closes, 50),
		EMA12: EMA(closes, MACDFastPeriod),
		EMA26: EMA(closes, MACDSlowPeriod),
		RSI14: RSI(closes, RSIPeriod),
		MACD:  MACD(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod),
	}
}

// ComputeBars computes the full indicator set from bar closes.
func ComputeBars(bars []model.PriceBar) Result {
	return ComputeAll(model.Closes(bars))
}

// Empty reports whether no series is populated.
func (r Result) Empty() bool {
	return r.SMA20 == nil && r.SMA50 == nil && r.EMA12 == nil &&
		r.EMA26 == nil && r.RSI14 == nil && r.MACD == nil
}

// Series returns the series shown for key. For MACD that is the MACD line.
func (r Result) Series(key model.IndicatorKey) (Series, bool) {
	var s Series
	switch key {
	case model.SMA20:
		s = r.SMA20
	case model.SMA50:
		s = r.SMA50
	case model.EMA12:
		s = r.EMA12
	case model.EMA26:
		s = r.EMA26
	case model.RSI:
		s = r.RSI14
	case model.MACD:
		if r.MACD != nil {
			s = r.MACD.Line
		}
	}
	return s, s != nil
}
