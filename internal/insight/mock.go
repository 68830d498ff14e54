package insight

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"StockLens/internal/model"
)

var summaryTemplates = []string{
	"%s shows strong momentum with recent price action indicating bullish sentiment. The technical indicators suggest continued upward movement.",
	"Current market conditions for %s indicate consolidation. Consider waiting for a clear breakout before making major position changes.",
	"%s is experiencing high volatility. Risk management is crucial at current levels. Monitor key support and resistance levels closely.",
	"Technical analysis suggests %s may be approaching a key decision point. Volume patterns support potential trend continuation.",
	"%s fundamentals remain strong despite recent price fluctuations. Long-term outlook appears favorable based on current indicators.",
}

var keyPoints = map[model.SentimentLabel][]string{
	model.Bullish: {
		"Strong upward price momentum",
		"Moving averages showing positive crossover",
		"Volume supporting price increases",
	},
	model.Bearish: {
		"Downward pressure on price action",
		"Indicators showing weakening momentum",
		"Market sentiment appears negative",
	},
	model.Neutral: {
		"Sideways trading pattern observed",
		"Mixed signals from technical indicators",
		"Market waiting for catalyst",
	},
}

var labels = []model.SentimentLabel{model.Bullish, model.Bearish, model.Neutral}

// Default simulated latencies of MockInsighter.
const (
	DefaultSummaryDelay   = 1500 * time.Millisecond
	DefaultSentimentDelay = 1000 * time.Millisecond
)

// MockInsighter returns canned text and a random sentiment after a
// simulated delay. It ignores the price data.
type MockInsighter struct {
	SummaryDelay   time.Duration
	SentimentDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockInsighter creates a MockInsighter seeded with seed.
func NewMockInsighter(summaryDelay, sentimentDelay time.Duration, seed int64) *MockInsighter {
	return &MockInsighter{
		SummaryDelay:   summaryDelay,
		SentimentDelay: sentimentDelay,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

func (m *MockInsighter) intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Intn(n)
}

func (m *MockInsighter) float() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Float64()
}

func (m *MockInsighter) Summarize(ctx context.Context, symbol string, _ []model.PriceBar) (string, error) {
	if err := sleep(ctx, m.SummaryDelay); err != nil {
		return "", err
	}
	return fmt.Sprintf(summaryTemplates[m.intn(len(summaryTemplates))], symbol), nil
}

func (m *MockInsighter) Sentiment(ctx context.Context, _ string) (model.Sentiment, error) {
	if err := sleep(ctx, m.SentimentDelay); err != nil {
		return model.Sentiment{}, err
	}
	label := labels[m.intn(len(labels))]
	points := make([]string, len(keyPoints[label]))
	copy(points, keyPoints[label])
	return model.Sentiment{
		Label:      label,
		Confidence: 60 + m.float()*40,
		KeyPoints:  points,
	}, nil
}
