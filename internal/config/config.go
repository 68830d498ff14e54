package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"StockLens/internal/chart"
	"StockLens/internal/model"

	"gopkg.in/yaml.v3"
)

// Data providers.
const (
	ProviderYahoo  = "yahoo"
	ProviderAssets = "assets"
	ProviderFile   = "file"
	ProviderMock   = "mock"
)

// Insight modes.
const (
	InsightMock  = "mock"
	InsightRules = "rules"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider   string   `yaml:"provider"`
		BaseURL    string   `yaml:"base_url"`
		APIKey     string   `yaml:"api_key"`
		FixtureDir string   `yaml:"fixture_dir"`
		Symbols    []string `yaml:"symbols"`
	} `yaml:"data_source"`
	Store struct {
		DefaultPeriod model.TimePeriod `yaml:"default_period"`
		SessionPath   string           `yaml:"session_path"` // empty disables persistence
	} `yaml:"store"`
	Chart    chart.Geometry `yaml:"chart"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		AlertCron   string `yaml:"alert_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Insight struct {
		Mode           string        `yaml:"mode"`
		SummaryDelay   time.Duration `yaml:"summary_delay"`
		SentimentDelay time.Duration `yaml:"sentiment_delay"`
	} `yaml:"insight"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Delays are only defaulted when the file leaves them out, so 0 stays expressible.
	cfg.Insight.SummaryDelay = -1
	cfg.Insight.SentimentDelay = -1

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("FIXTURE_DIR"); v != "" {
		cfg.DataSource.FixtureDir = v
	}
	if v := os.Getenv("DEFAULT_PERIOD"); v != "" {
		cfg.Store.DefaultPeriod = model.TimePeriod(v)
	}
	if v := os.Getenv("SESSION_PATH"); v != "" {
		cfg.Store.SessionPath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("INSIGHT_MODE"); v != "" {
		cfg.Insight.Mode = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	cfg.DataSource.Provider = strings.ToLower(cfg.DataSource.Provider)
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
	}
	if cfg.DataSource.FixtureDir == "" {
		cfg.DataSource.FixtureDir = "data/prices"
	}
	for i, s := range cfg.DataSource.Symbols {
		cfg.DataSource.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if cfg.Store.DefaultPeriod == "" {
		cfg.Store.DefaultPeriod = model.DefaultPeriod
	} else {
		cfg.Store.DefaultPeriod = model.TimePeriod(strings.ToUpper(string(cfg.Store.DefaultPeriod)))
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = chart.DefaultWidth
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = chart.DefaultHeight
	}
	if cfg.Chart.Padding == 0 {
		cfg.Chart.Padding = chart.DefaultPadding
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */15 * * * 1-5"
	}
	if cfg.Schedule.AlertCron == "" {
		cfg.Schedule.AlertCron = "0 5 22 * * 1-5"
	}
	cfg.Insight.Mode = strings.ToLower(cfg.Insight.Mode)
	if cfg.Insight.Mode == "" {
		cfg.Insight.Mode = InsightMock
	}
	if cfg.Insight.SummaryDelay < 0 {
		cfg.Insight.SummaryDelay = 1500 * time.Millisecond
	}
	if cfg.Insight.SentimentDelay < 0 {
		cfg.Insight.SentimentDelay = 1000 * time.Millisecond
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	return cfg, nil
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock, ProviderFile:
	case ProviderAssets:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the assets provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.Store.DefaultPeriod.Lookback() == 0 {
		return fmt.Errorf("store.default_period: %w: %q", model.ErrUnknownPeriod, c.Store.DefaultPeriod)
	}
	if c.Chart.Width <= 2*c.Chart.Padding || c.Chart.Height <= 2*c.Chart.Padding {
		return fmt.Errorf("chart: width and height must exceed twice the padding")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.Insight.Mode {
	case InsightMock, InsightRules:
	default:
		return fmt.Errorf("insight.mode %q is not supported", c.Insight.Mode)
	}
	return nil
}
