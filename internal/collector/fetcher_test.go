package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"StockLens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yahooBody = `{"chart":{"result":[{
	"timestamp":[1704292200,1704205800,1704378600,1704378660],
	"indicators":{"quote":[{
		"open":[11,10,null,12],
		"high":[12,11,null,13],
		"low":[10,9,null,11],
		"close":[11.5,10.5,null,12.5],
		"volume":[200,100,null,300]
	}]}
}],"error":null}}`

func TestYahooFetcher(t *testing.T) {
	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		if r.URL.Path == "/v8/finance/chart/NOPE" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	bars, err := f.FetchBars(context.Background(), "SPX", model.Period1M)
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Equal(t, "3mo", gotRange)

	require.Len(t, bars, 3)
	assert.Equal(t, "2024-01-02", bars[0].Date)
	assert.Equal(t, 10.5, bars[0].Close)
	assert.Equal(t, "2024-01-04", bars[2].Date)
	assert.Equal(t, 12.5, bars[2].Close)
	assert.NoError(t, model.ValidateSeries(bars))

	bars, err = f.FetchBars(context.Background(), "AAPL", model.Period1D)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "2024-01-04", bars[0].Date)

	bars, err = f.FetchBars(context.Background(), "NOPE", model.Period3M)
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchBars(context.Background(), "AAPL", model.Period3M)
	assert.ErrorContains(t, err, "Invalid input")
}

func TestYahooRange(t *testing.T) {
	assert.Equal(t, "1mo", yahooRange(model.Period1W.Lookback()))
	assert.Equal(t, "6mo", yahooRange(model.Period3M.Lookback()))
	assert.Equal(t, "2y", yahooRange(model.Period1Y.Lookback()))
}

func TestAssetsFetcher(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/prices/aapl.json":
			w.Write([]byte(`{"data":[
				{"date":"2024-01-03","open":1,"high":2,"low":1,"close":2,"volume":10},
				{"date":"2024-01-02","open":1,"high":1,"low":1,"close":1,"volume":10}
			]}`))
		case "/prices/boom.json":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewAssetsFetcher(srv.URL+"/", "secret", "")
	bars, err := f.FetchBars(context.Background(), "AAPL", model.Period3M)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-01-02", bars[0].Date)

	bars, err = f.FetchBars(context.Background(), "ZZZ", model.Period3M)
	require.NoError(t, err)
	assert.Empty(t, bars)

	_, err = f.FetchBars(context.Background(), "BOOM", model.Period3M)
	assert.ErrorContains(t, err, "status 500")
}

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	data := `{"data":[
		{"date":"2024-01-02","open":1,"high":1,"low":1,"close":1,"volume":1},
		{"date":"2024-01-03","open":1,"high":1,"low":1,"close":2,"volume":1},
		{"date":"2024-01-04","open":1,"high":1,"low":1,"close":3,"volume":1}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "msft.json"), []byte(data), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aapl.json"), []byte(`{"data":[]}`), 0o644))

	f := NewFileFetcher(dir)
	bars, err := f.FetchBars(context.Background(), "MSFT", model.Period1D)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 3.0, bars[0].Close)

	bars, err = f.FetchBars(context.Background(), "AAPL", model.Period3M)
	require.NoError(t, err)
	assert.Empty(t, bars)

	bars, err = f.FetchBars(context.Background(), "NONE", model.Period3M)
	require.NoError(t, err)
	assert.Empty(t, bars)

	symbols, err := ListSymbols(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
}

func TestMockFetcher(t *testing.T) {
	f := &MockFetcher{Known: []string{"AAPL"}, End: testEnd}

	a, err := f.FetchBars(context.Background(), "AAPL", model.Period1M)
	require.NoError(t, err)
	b, err := f.FetchBars(context.Background(), "AAPL", model.Period1M)
	require.NoError(t, err)
	assert.Equal(t, a, b, "generated data is deterministic")
	require.Len(t, a, 21)
	for _, bar := range a {
		wd := bar.Time().Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
		assert.GreaterOrEqual(t, bar.High, bar.Low)
	}

	none, err := f.FetchBars(context.Background(), "ZZZ", model.Period1M)
	require.NoError(t, err)
	assert.Empty(t, none)

	slow := &MockFetcher{Known: []string{"AAPL"}, Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = slow.FetchBars(ctx, "AAPL", model.Period1M)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListSymbols_Default(t *testing.T) {
	symbols, err := ListSymbols(context.Background(), NewYahooFetcher(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultSymbols, symbols)
}
