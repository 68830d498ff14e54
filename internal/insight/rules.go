package insight

import (
	"context"
	"fmt"
	"strings"

	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/strategy"
)

// RuleInsighter derives insights from the indicator engine and the factor
// scoring in strategy. Sentiment fetches its own bars for Period since the
// call carries only a symbol.
type RuleInsighter struct {
	Fetcher collector.Fetcher
	Period  model.TimePeriod
}

// NewRuleInsighter creates a RuleInsighter reading bars from f.
func NewRuleInsighter(f collector.Fetcher, period model.TimePeriod) *RuleInsighter {
	if period.Lookback() == 0 {
		period = model.DefaultPeriod
	}
	return &RuleInsighter{Fetcher: f, Period: period}
}

func (r *RuleInsighter) Summarize(ctx context.Context, symbol string, bars []model.PriceBar) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(bars) == 0 {
		return "", ErrNoBars
	}
	ev := strategy.EvaluateBars(bars, calculator.ComputeBars(bars))

	first, last := bars[0].Close, bars[len(bars)-1].Close
	change := 0.0
	if first != 0 {
		change = (last - first) / first * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s closed at %.2f, %+.1f%% over the last %d sessions. ", symbol, last, change, len(bars))
	fmt.Fprintf(&b, "The technical picture is %s (score %+.2f).", ev.Sentiment.Label, ev.TotalScore)
	if ev.Warning != "" {
		fmt.Fprintf(&b, " %s.", ev.Warning)
	}
	return b.String(), nil
}

func (r *RuleInsighter) Sentiment(ctx context.Context, symbol string) (model.Sentiment, error) {
	bars, err := r.Fetcher.FetchBars(ctx, symbol, r.Period)
	if err != nil {
		return model.Sentiment{}, fmt.Errorf("sentiment %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return model.Sentiment{}, ErrNoBars
	}
	return strategy.EvaluateBars(bars, calculator.ComputeBars(bars)).Sentiment, nil
}
