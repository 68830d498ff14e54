package strategy

import (
	"math"
	"sort"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// Bands maps a total score to a sentiment label, highest first.
var Bands = []struct {
	MinScore float64
	Label    model.SentimentLabel
}{
	{0.3, model.Bullish},
	{-0.3, model.Neutral},
}

// DefaultLabel applies to scores below every band.
const DefaultLabel = model.Bearish

// maxScore is the largest attainable |total score|.
const maxScore = 1.5*0.30 + 1.0*0.20 + 1.0*0.20 + 1.0*0.20 + 1.0*0.10

// Evaluation is the scored view of one price series.
type Evaluation struct {
	Factors    []model.FactorScore  `json:"factors"`
	TotalScore float64              `json:"totalScore"`
	Sentiment  model.Sentiment      `json:"sentiment"`
	RSIStatus  calculator.RSIStatus `json:"rsiStatus"`
	Warning    string               `json:"warning,omitempty"`
}

// mapLabel maps a total score to a sentiment label.
func mapLabel(totalScore float64) model.SentimentLabel {
	for _, b := range Bands {
		if totalScore >= b.MinScore {
			return b.Label
		}
	}
	return DefaultLabel
}

// confidence grows from 50 with the strength of the score, capped at 95.
func confidence(totalScore float64) float64 {
	strength := math.Min(math.Abs(totalScore)/maxScore, 1)
	return math.Round((50+strength*45)*10) / 10
}

// Evaluate scores the latest indicator readings.
func Evaluate(in Inputs) *Evaluation {
	factors := []model.FactorScore{
		scoreTrend(in),
		scoreDeviation(in),
		scoreRSI(in),
		scoreMACD(in),
		scoreEMACross(in),
	}

	var total float64
	for _, f := range factors {
		total += f.Weighted
	}
	label := mapLabel(total)

	ev := &Evaluation{
		Factors:    factors,
		TotalScore: total,
		Sentiment: model.Sentiment{
			Label:      label,
			Confidence: confidence(total),
			KeyPoints:  keyPoints(factors, 3),
		},
		RSIStatus: calculator.StatusNeutral,
	}

	if in.RSI.Valid {
		ev.RSIStatus = calculator.ClassifyRSI(in.RSI.V)
		switch ev.RSIStatus {
		case calculator.StatusOverbought:
			ev.Warning = "RSI above 70: overbought, consider taking partial profit"
		case calculator.StatusOversold:
			ev.Warning = "RSI below 30: oversold, watch for a rebound"
		}
	}
	return ev
}

// EvaluateBars scores bars using their computed indicators.
func EvaluateBars(bars []model.PriceBar, res calculator.Result) *Evaluation {
	return Evaluate(InputsOf(bars, res))
}

// keyPoints returns the commentary of the n factors that moved the score most.
func keyPoints(factors []model.FactorScore, n int) []string {
	ranked := make([]model.FactorScore, 0, len(factors))
	for _, f := range factors {
		if f.Weighted != 0 {
			ranked = append(ranked, f)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Weighted) > math.Abs(ranked[j].Weighted)
	})

	points := make([]string, 0, n)
	for _, f := range ranked {
		if len(points) == n {
			break
		}
		points = append(points, f.Commentary)
	}
	if len(points) == 0 {
		points = append(points, "Mixed signals from technical indicators")
	}
	return points
}
