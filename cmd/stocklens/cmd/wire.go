package cmd

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/insight"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
)

func newFetcher(cfg *config.Config) collector.Fetcher {
	var f collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderAssets:
		f = collector.NewAssetsFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderFile:
		f = collector.NewFileFetcher(cfg.DataSource.FixtureDir)
	case config.ProviderMock:
		f = collector.NewMockFetcher()
	default:
		yf := collector.NewYahooFetcher(cfg.Proxy)
		if cfg.DataSource.BaseURL != "" {
			yf.BaseURL = cfg.DataSource.BaseURL
		}
		f = yf
	}
	log.Printf("[INFO] data source: %s", f.Name())
	return f
}

// newRecorder falls back to the noop recorder when SQLite is not configured
// or cannot be opened.
func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		log.Printf("[WARN] create sqlite directory: %v", err)
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newInsighter(cfg *config.Config, f collector.Fetcher) insight.Insighter {
	if cfg.Insight.Mode == config.InsightRules {
		return insight.NewRuleInsighter(f, cfg.Store.DefaultPeriod)
	}
	return insight.NewMockInsighter(cfg.Insight.SummaryDelay, cfg.Insight.SentimentDelay, time.Now().UnixNano())
}

func newNotifier(cfg *config.Config) notifier.Notifier {
	if !cfg.TelegramEnabled() {
		log.Println("[INFO] Telegram not configured, notifications go to the log")
		return notifier.NewLogNotifier()
	}
	return notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
}
