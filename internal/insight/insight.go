// Package insight provides narrative enrichment for a loaded symbol: a short
// text summary and a sentiment reading. Insights are best effort and never
// gate the indicator pipeline.
package insight

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"StockLens/internal/model"
)

// FailureMessage is the user-facing error when either insight call fails.
const FailureMessage = "Failed to load AI insights. Please try again."

// ErrNoBars is returned when there is no price data to reason about.
var ErrNoBars = errors.New("no price data for insight")

// Insighter produces insights for a symbol.
type Insighter interface {
	Summarize(ctx context.Context, symbol string, bars []model.PriceBar) (string, error)
	Sentiment(ctx context.Context, symbol string) (model.Sentiment, error)
}

// Insight is the combined answer of both Insighter calls.
type Insight struct {
	Symbol    string           `json:"symbol"`
	Summary   string           `json:"summary,omitempty"`
	Sentiment *model.Sentiment `json:"sentiment,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Load runs Summarize and Sentiment concurrently. If either fails the
// result carries FailureMessage and no partial answer.
func Load(ctx context.Context, ins Insighter, symbol string, bars []model.PriceBar) *Insight {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	out := &Insight{Symbol: symbol}

	var (
		wg           sync.WaitGroup
		summary      string
		sentiment    model.Sentiment
		sumErr, sErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		summary, sumErr = ins.Summarize(ctx, symbol, bars)
	}()
	go func() {
		defer wg.Done()
		sentiment, sErr = ins.Sentiment(ctx, symbol)
	}()
	wg.Wait()

	if err := errors.Join(sumErr, sErr); err != nil {
		log.Printf("[WARN] load insights for %s: %v", symbol, err)
		out.Error = FailureMessage
		return out
	}
	out.Summary = summary
	out.Sentiment = &sentiment
	return out
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
