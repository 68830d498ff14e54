package cmd

import (
	"context"
	"fmt"

	"StockLens/internal/collector"

	"github.com/spf13/cobra"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List the symbols offered by the data source",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		symbols := cfg.DataSource.Symbols
		if len(symbols) == 0 {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			symbols, err = collector.ListSymbols(ctx, newFetcher(cfg))
			if err != nil {
				return fmt.Errorf("list symbols: %w", err)
			}
		}
		for _, s := range symbols {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}
