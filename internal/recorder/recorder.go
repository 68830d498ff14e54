package recorder

import (
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// Load outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeNoData = "no_data"
	OutcomeError  = "error"
	OutcomeStale  = "stale"
)

// LoadEvent records one price series load.
type LoadEvent struct {
	RequestID string
	Symbol    string
	Period    string
	Outcome   string
	Bars      int
	Duration  time.Duration
	Error     string
}

// IndicatorSnapshot holds the latest defined indicator values after a load.
// Nil fields had no defined value.
type IndicatorSnapshot struct {
	RequestID string
	Symbol    string
	Period    string
	Date      string
	Close     float64
	SMA20     *float64
	SMA50     *float64
	EMA12     *float64
	EMA26     *float64
	RSI       *float64
	MACD      *float64
	Signal    *float64
	Histogram *float64
}

// AlertEvent records an RSI alert.
type AlertEvent struct {
	Symbol string
	Status string // "overbought" or "oversold"
	RSI    float64
	Price  float64
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordLoad(evt *LoadEvent) error
	RecordSnapshot(snap *IndicatorSnapshot) error
	RecordAlert(evt *AlertEvent) error
	Close() error
}

func latest(s calculator.Series) *float64 {
	if v, ok := calculator.LatestValue(s); ok {
		return &v
	}
	return nil
}

// SnapshotOf builds the snapshot for a successful load.
func SnapshotOf(reqID, symbol string, period model.TimePeriod, bars []model.PriceBar, res calculator.Result) *IndicatorSnapshot {
	snap := &IndicatorSnapshot{
		RequestID: reqID,
		Symbol:    symbol,
		Period:    string(period),
		SMA20:     latest(res.SMA20),
		SMA50:     latest(res.SMA50),
		EMA12:     latest(res.EMA12),
		EMA26:     latest(res.EMA26),
		RSI:       latest(res.RSI14),
	}
	if len(bars) > 0 {
		last := bars[len(bars)-1]
		snap.Date = last.Date
		snap.Close = last.Close
	}
	if res.MACD != nil {
		snap.MACD = latest(res.MACD.Line)
		snap.Signal = latest(res.MACD.Signal)
		snap.Histogram = latest(res.MACD.Histogram)
	}
	return snap
}
