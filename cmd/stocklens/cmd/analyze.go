package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/insight"
	"StockLens/internal/model"
	"StockLens/internal/store"
	"StockLens/internal/strategy"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Print the indicator report for a symbol",
	Long: `Load one symbol from the configured data source, compute its indicators
and print the latest readings with the scored sentiment.

Example:
  stocklens analyze AAPL --period 6M --rows 10
  stocklens analyze MSFT --json --insight`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

type analyzeOptions struct {
	Period  string
	JSON    bool
	Insight bool
	Rows    int
	Timeout time.Duration
}

var analyzeOpts analyzeOptions

func init() {
	rootCmd.AddCommand(analyzeCmd)

	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeOpts.Period, "period", "p", "", "time period (1D, 1W, 1M, 3M, 6M, 1Y); config default when empty")
	f.BoolVar(&analyzeOpts.JSON, "json", false, "print the report as JSON")
	f.BoolVar(&analyzeOpts.Insight, "insight", false, "include the AI summary and sentiment")
	f.IntVarP(&analyzeOpts.Rows, "rows", "n", 5, "number of trailing bars to print")
	f.DurationVar(&analyzeOpts.Timeout, "timeout", 30*time.Second, "load timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts := analyzeOpts
	if opts.Period == "" {
		opts.Period = string(cfg.Store.DefaultPeriod)
	}

	fetcher := newFetcher(cfg)
	var ins insight.Insighter
	if opts.Insight {
		ins = newInsighter(cfg, fetcher)
	}
	return analyze(cmd.Context(), cmd.OutOrStdout(), fetcher, ins, args[0], opts)
}

// report is the JSON form of the analyze output.
type report struct {
	Symbol     string                         `json:"symbol"`
	Period     model.TimePeriod               `json:"period"`
	Bars       int                            `json:"bars"`
	Latest     model.PriceBar                 `json:"latest"`
	Change     float64                        `json:"changePct"`
	Indicators map[model.IndicatorKey]float64 `json:"indicators"`
	Recent     []model.PriceBar               `json:"recent"`
	Evaluation *strategy.Evaluation           `json:"evaluation"`
	Insight    *insight.Insight               `json:"insight,omitempty"`
}

// analyze loads symbol through a private store and writes the report to w.
// A nil ins skips the insight section.
func analyze(ctx context.Context, w io.Writer, f collector.Fetcher, ins insight.Insighter, symbol string, opts analyzeOptions) error {
	period, err := model.ParsePeriod(opts.Period)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	st := store.New(period)
	col := collector.NewCollector(f, st, nil, nil)
	if err := col.Load(ctx, symbol); err != nil {
		if msg := st.Error(); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}

	snap := st.Snapshot()
	rep := buildReport(snap, opts.Rows)
	if ins != nil {
		rep.Insight = insight.Load(ctx, ins, snap.Symbol, snap.Prices)
	}

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return writeReport(w, snap, rep)
}

func buildReport(snap *store.MarketState, rows int) *report {
	bars := snap.Prices
	rep := &report{
		Symbol:     snap.Symbol,
		Period:     snap.Period,
		Bars:       len(bars),
		Indicators: make(map[model.IndicatorKey]float64),
		Evaluation: strategy.EvaluateBars(bars, snap.Indicators),
	}
	if len(bars) == 0 {
		return rep
	}
	rep.Latest = bars[len(bars)-1]
	if first := bars[0].Close; first != 0 {
		rep.Change = (rep.Latest.Close - first) / first * 100
	}
	for _, key := range model.IndicatorKeys {
		s, _ := snap.Indicators.Series(key)
		if v, ok := calculator.LatestValue(s); ok {
			rep.Indicators[key] = v
		}
	}
	if rows > len(bars) {
		rows = len(bars)
	}
	if rows > 0 {
		rep.Recent = bars[len(bars)-rows:]
	}
	return rep
}

func writeReport(w io.Writer, snap *store.MarketState, rep *report) error {
	bars := snap.Prices
	fmt.Fprintf(w, "%s %s: %d bars, %s .. %s\n", rep.Symbol, rep.Period, rep.Bars, bars[0].Date, rep.Latest.Date)
	fmt.Fprintf(w, "Close %.2f (%+.2f%% over the period)\n\n", rep.Latest.Close, rep.Change)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tCLOSE\tSMA20\tSMA50\tEMA12\tEMA26\tRSI\tMACD\t")
	offset := len(bars) - len(rep.Recent)
	res := snap.Indicators
	for i, b := range rep.Recent {
		idx := offset + i
		var macd calculator.Series
		if res.MACD != nil {
			macd = res.MACD.Line
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\t%s\t%s\t%s\t%s\t\n", b.Date, b.Close,
			cell(res.SMA20, idx), cell(res.SMA50, idx), cell(res.EMA12, idx),
			cell(res.EMA26, idx), cell(res.RSI14, idx), cell(macd, idx))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	ev := rep.Evaluation
	fmt.Fprintf(w, "\nSentiment: %s (%.1f%% confidence, score %+.2f)\n",
		ev.Sentiment.Label, ev.Sentiment.Confidence, ev.TotalScore)
	for _, p := range ev.Sentiment.KeyPoints {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	fmt.Fprintln(w, "Factors:")
	for _, f := range ev.Factors {
		fmt.Fprintf(w, "  %-10s %+.2f x %.2f = %+.3f  %s\n", f.Name, f.RawScore, f.Weight, f.Weighted, f.Commentary)
	}
	if ev.Warning != "" {
		fmt.Fprintf(w, "Warning: %s\n", ev.Warning)
	}

	if in := rep.Insight; in != nil {
		fmt.Fprintln(w, "\nAI insight:")
		if in.Error != "" {
			fmt.Fprintf(w, "  %s\n", in.Error)
			return nil
		}
		fmt.Fprintf(w, "  %s\n", in.Summary)
		fmt.Fprintf(w, "  %s (%.0f%%): %s\n", in.Sentiment.Label, in.Sentiment.Confidence,
			strings.Join(in.Sentiment.KeyPoints, "; "))
	}
	return nil
}

func cell(s calculator.Series, i int) string {
	if i >= len(s) || !s[i].Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f", s[i].V)
}
