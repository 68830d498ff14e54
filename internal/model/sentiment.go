package model

// SentimentLabel is the direction reported by an insight source.
type SentimentLabel string

const (
	Bullish SentimentLabel = "bullish"
	Bearish SentimentLabel = "bearish"
	Neutral SentimentLabel = "neutral"
)

// Sentiment is the structured market-sentiment answer.
type Sentiment struct {
	Label      SentimentLabel `json:"sentiment"`
	Confidence float64        `json:"confidence"` // 0 ~ 100
	KeyPoints  []string       `json:"keyPoints"`
}

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string  `json:"name"`
	RawScore   float64 `json:"rawScore"`
	Weight     float64 `json:"weight"`
	Weighted   float64 `json:"weighted"`
	Commentary string  `json:"commentary"`
}
