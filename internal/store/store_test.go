package store

import (
	"errors"
	"testing"

	"StockLens/internal/calculator"
	"StockLens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBars() []model.PriceBar {
	return []model.PriceBar{
		{Date: "2024-03-01", Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1000},
		{Date: "2024-03-04", Open: 10.5, High: 12, Low: 10, Close: 11.5, Volume: 1200},
		{Date: "2024-03-05", Open: 11.5, High: 12.5, Low: 11, Close: 12, Volume: 900},
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(model.Period1M)
	st := s.Snapshot()

	assert.False(t, st.HasSymbol())
	assert.Empty(t, st.Prices)
	assert.True(t, st.Indicators.Empty())
	assert.Equal(t, model.DefaultSettings(), st.Settings)
	assert.Equal(t, model.Period1M, st.Period)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)

	_, ok := s.LatestPrice()
	assert.False(t, ok)

	assert.Equal(t, model.DefaultPeriod, New("bogus").Period())
}

func TestSetPriceSeries_CopiesAndKeepsIndicators(t *testing.T) {
	s := New(model.Period3M)
	bars := sampleBars()
	s.SetPriceSeries(bars)

	bars[0].Close = 999
	assert.Equal(t, 10.5, s.Prices()[0].Close)
	assert.True(t, s.Indicators().Empty(), "setting prices must not compute indicators")

	latest, ok := s.LatestPrice()
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", latest.Date)
}

func TestUpdate_ReplacesWholeState(t *testing.T) {
	s := New(model.Period3M)
	before := s.Snapshot()
	s.SetSymbol("AAPL")
	after := s.Snapshot()

	assert.NotSame(t, before, after)
	assert.Empty(t, before.Symbol)
	assert.Equal(t, "AAPL", after.Symbol)
	assert.Equal(t, before.Version+1, after.Version)
}

func TestToggleIndicator_OnlyOneFlag(t *testing.T) {
	s := New(model.Period3M)
	s.SetSymbol("MSFT")
	s.SetPriceSeries(sampleBars())
	before := s.Snapshot()

	require.NoError(t, s.ToggleIndicator(model.RSI))
	after := s.Snapshot()

	want := before.Settings
	want.RSI = true
	assert.Equal(t, want, after.Settings)
	assert.Equal(t, before.Symbol, after.Symbol)
	assert.Equal(t, before.Prices, after.Prices)
	assert.Equal(t, before.Period, after.Period)

	require.NoError(t, s.ToggleIndicator(model.RSI))
	assert.Equal(t, before.Settings, s.Settings())
}

func TestToggleIndicator_Unknown(t *testing.T) {
	s := New(model.Period3M)
	v := s.Snapshot().Version
	err := s.ToggleIndicator("vwap")
	assert.True(t, errors.Is(err, model.ErrUnknownIndicator))
	assert.Equal(t, v, s.Snapshot().Version)
}

func TestSetPeriod(t *testing.T) {
	s := New(model.Period3M)
	require.NoError(t, s.SetPeriod(model.Period1Y))
	assert.Equal(t, model.Period1Y, s.Period())
	assert.ErrorIs(t, s.SetPeriod("2Y"), model.ErrUnknownPeriod)
}

func TestReset(t *testing.T) {
	s := New(model.Period6M)
	s.SetSymbol("TSLA")
	s.SetPriceSeries(sampleBars())
	s.SetIndicators(calculator.ComputeBars(sampleBars()))
	s.SetError("boom")
	s.SetLoading(true)
	require.NoError(t, s.ToggleIndicator(model.MACD))

	s.Reset()
	st := s.Snapshot()
	assert.Empty(t, st.Symbol)
	assert.Empty(t, st.Prices)
	assert.True(t, st.Indicators.Empty())
	assert.Empty(t, st.Error)
	assert.True(t, st.Settings.MACD)
	assert.Equal(t, model.Period6M, st.Period)
	assert.True(t, st.Loading)
}

func TestEnabledSeries(t *testing.T) {
	s := New(model.Period3M)
	bars := sampleBars()
	s.SetPriceSeries(bars)
	s.SetIndicators(calculator.ComputeBars(bars))

	enabled := s.Snapshot().EnabledSeries()
	assert.Len(t, enabled, 2)
	assert.Contains(t, enabled, model.SMA20)
	assert.Contains(t, enabled, model.SMA50)

	require.NoError(t, s.ToggleIndicator(model.SMA20))
	require.NoError(t, s.ToggleIndicator(model.MACD))
	enabled = s.Snapshot().EnabledSeries()
	assert.NotContains(t, enabled, model.SMA20)
	assert.Len(t, enabled[model.MACD], len(bars))
}

func TestSubscribe_ReceivesLatest(t *testing.T) {
	s := New(model.Period3M)
	ch, cancel := s.Subscribe()

	s.SetSymbol("AAPL")
	s.SetLoading(true)
	s.SetLoading(false)

	st := <-ch
	assert.Equal(t, s.Snapshot(), st)
	assert.Equal(t, "AAPL", st.Symbol)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	s.SetSymbol("MSFT")
}
