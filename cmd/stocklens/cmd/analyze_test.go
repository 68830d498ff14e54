package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/insight"
	"StockLens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher() *collector.MockFetcher {
	return &collector.MockFetcher{
		Known: collector.DefaultSymbols,
		End:   time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
	}
}

func TestAnalyzeText(t *testing.T) {
	var buf bytes.Buffer
	err := analyze(context.Background(), &buf, testFetcher(), nil, "aapl", analyzeOptions{Period: "3m", Rows: 3})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "AAPL 3M: 63 bars")
	assert.Contains(t, out, "2024-06-28")
	assert.Contains(t, out, "Sentiment: ")
	assert.Contains(t, out, "Factors:")
	assert.NotContains(t, out, "AI insight")
}

func TestAnalyzeJSONWithInsight(t *testing.T) {
	var buf bytes.Buffer
	opts := analyzeOptions{Period: "1M", JSON: true, Rows: 30}
	err := analyze(context.Background(), &buf, testFetcher(), insight.NewMockInsighter(0, 0, 7), "MSFT", opts)
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rep))
	assert.Equal(t, "MSFT", rep.Symbol)
	assert.Equal(t, model.Period1M, rep.Period)
	assert.Equal(t, 21, rep.Bars)
	assert.Len(t, rep.Recent, 21, "rows are capped at the series length")
	assert.Equal(t, "2024-06-28", rep.Latest.Date)
	assert.Contains(t, rep.Indicators, model.SMA20)
	assert.NotContains(t, rep.Indicators, model.SMA50, "SMA50 is undefined on 21 bars")
	require.NotNil(t, rep.Evaluation)
	require.NotNil(t, rep.Insight)
	assert.Empty(t, rep.Insight.Error)
	assert.Contains(t, rep.Insight.Summary, "MSFT")
}

func TestAnalyzeErrors(t *testing.T) {
	var buf bytes.Buffer
	err := analyze(context.Background(), &buf, testFetcher(), nil, "AAPL", analyzeOptions{Period: "5Y"})
	assert.ErrorIs(t, err, model.ErrUnknownPeriod)

	err = analyze(context.Background(), &buf, testFetcher(), nil, "ZZZZ", analyzeOptions{Period: "3M"})
	require.ErrorIs(t, err, collector.ErrNoData)
	assert.Contains(t, err.Error(), collector.NoDataMessage("ZZZZ"))
	assert.Empty(t, buf.String())
}
