package collector

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"StockLens/internal/model"
)

// MockFetcher returns controllable data for development and testing.
// Known symbols get a deterministic random walk; anything else has no data.
type MockFetcher struct {
	Known []string
	Bars  map[string][]model.PriceBar // fixed data per symbol, wins over generated data
	End   time.Time                   // last generated trading day; zero means today
	Delay time.Duration
	Err   error
}

// NewMockFetcher serves generated data for DefaultSymbols.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{Known: DefaultSymbols}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(ctx context.Context, symbol string, period model.TimePeriod) ([]model.PriceBar, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Bars[symbol]; ok {
		out := make([]model.PriceBar, len(bars))
		copy(out, bars)
		return trim(out, period), nil
	}
	for _, k := range m.Known {
		if k == symbol {
			end := m.End
			if end.IsZero() {
				end = time.Now()
			}
			return generateMockBars(symbol, period.Lookback(), end), nil
		}
	}
	return []model.PriceBar{}, nil
}

func (m *MockFetcher) Symbols(_ context.Context) ([]string, error) {
	out := make([]string, len(m.Known))
	copy(out, m.Known)
	return out, nil
}

// generateMockBars builds count weekday bars ending on or before end.
func generateMockBars(symbol string, count int, end time.Time) []model.PriceBar {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	dates := make([]string, 0, count)
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	for len(dates) < count {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, day.Format(model.DateLayout))
		}
		day = day.AddDate(0, 0, -1)
	}

	price := 50 + rng.Float64()*500
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		open := price
		price *= 1 + (rng.Float64()-0.48)*0.04
		high := max(open, price) * (1 + rng.Float64()*0.01)
		low := min(open, price) * (1 - rng.Float64()*0.01)
		bars[i] = model.PriceBar{
			Date:   dates[count-1-i],
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: float64(1_000_000 + rng.Intn(9_000_000)),
		}
	}
	return bars
}
