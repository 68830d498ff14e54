package cmd

import (
	"fmt"
	"os"

	"StockLens/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stocklens",
	Short: "Stock charts annotated with technical indicators",
	Long: `StockLens loads daily price series, computes SMA, EMA, RSI and MACD, and
serves the result as chart geometry over HTTP and WebSocket.

It provides:
  - serve     HTTP API, snapshot stream, scheduled refresh and Telegram alerts
  - analyze   one-shot indicator report for a symbol
  - symbols   the symbols offered by the configured data source`,
	SilenceUsage: true,
}

var cfgPath string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultPath, "path to config file")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}
