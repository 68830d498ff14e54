package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"StockLens/internal/model"
)

// priceFile is the JSON shape of a price fixture: {"data": [bars...]}.
type priceFile struct {
	Data []model.PriceBar `json:"data"`
}

func decodePriceFile(r io.Reader) ([]model.PriceBar, error) {
	var pf priceFile
	if err := json.NewDecoder(r).Decode(&pf); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := pf.Data
	if bars == nil {
		bars = []model.PriceBar{}
	}
	// Ensure chronological order
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}

// AssetsFetcher reads price fixtures served over HTTP at
// {BaseURL}/prices/{symbol}.json.
type AssetsFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAssetsFetcher creates a new fetcher with optional proxy support.
func NewAssetsFetcher(baseURL, apiKey, proxyURL string) *AssetsFetcher {
	return &AssetsFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *AssetsFetcher) Name() string { return "assets" }

func (f *AssetsFetcher) FetchBars(ctx context.Context, symbol string, period model.TimePeriod) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/prices/%s.json", f.BaseURL, strings.ToLower(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return []model.PriceBar{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	bars, err := decodePriceFile(resp.Body)
	if err != nil {
		return nil, err
	}
	return trim(bars, period), nil
}

// FileFetcher reads price fixtures from Dir/{symbol}.json.
type FileFetcher struct {
	Dir string
}

// NewFileFetcher creates a fetcher over a local fixture directory.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Dir: dir}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchBars(ctx context.Context, symbol string, period model.TimePeriod) ([]model.PriceBar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(filepath.Join(f.Dir, strings.ToLower(symbol)+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.PriceBar{}, nil
		}
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer fh.Close()

	bars, err := decodePriceFile(fh)
	if err != nil {
		return nil, err
	}
	return trim(bars, period), nil
}

// Symbols lists the fixtures present in Dir.
func (f *FileFetcher) Symbols(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(f.Dir, "*.json"))
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(matches))
	for _, m := range matches {
		symbols = append(symbols, strings.ToUpper(strings.TrimSuffix(filepath.Base(m), ".json")))
	}
	sort.Strings(symbols)
	return symbols, nil
}
