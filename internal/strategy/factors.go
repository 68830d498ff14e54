package strategy

import (
	"fmt"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// Inputs are the latest indicator readings of one price series.
type Inputs struct {
	Price     float64
	SMA20     calculator.Value
	SMA50     calculator.Value
	EMA12     calculator.Value
	EMA26     calculator.Value
	RSI       calculator.Value
	MACD      calculator.Value
	Histogram calculator.Value
}

// InputsOf reads the latest values of bars and their computed indicators.
func InputsOf(bars []model.PriceBar, res calculator.Result) Inputs {
	in := Inputs{
		SMA20: latest(res.SMA20),
		SMA50: latest(res.SMA50),
		EMA12: latest(res.EMA12),
		EMA26: latest(res.EMA26),
		RSI:   latest(res.RSI14),
	}
	if len(bars) > 0 {
		in.Price = bars[len(bars)-1].Close
	}
	if res.MACD != nil {
		in.MACD = latest(res.MACD.Line)
		in.Histogram = latest(res.MACD.Histogram)
	}
	return in
}

func latest(s calculator.Series) calculator.Value {
	if v, ok := calculator.LatestValue(s); ok {
		return calculator.Some(v)
	}
	return calculator.None
}

func factor(name string, score, weight float64, commentary string) model.FactorScore {
	return model.FactorScore{
		Name:       name,
		RawScore:   score,
		Weight:     weight,
		Weighted:   score * weight,
		Commentary: commentary,
	}
}

func unavailable(name string, weight float64) model.FactorScore {
	return factor(name, 0, weight, name+" unavailable")
}

// scoreTrend scores the alignment of price, SMA20 and SMA50.
// Weight: 0.30
// Bull alignment: price > SMA20 > SMA50
// Bear alignment: price < SMA20 < SMA50
func scoreTrend(in Inputs) model.FactorScore {
	const name, weight = "Trend", 0.30
	if !in.SMA20.Valid {
		return unavailable(name, weight)
	}
	sma20 := in.SMA20.V
	if !in.SMA50.Valid {
		// only the short average is known
		if in.Price > sma20 {
			return factor(name, 0.5, weight, "Price trading above its 20-day average")
		}
		return factor(name, -0.5, weight, "Price trading below its 20-day average")
	}
	sma50 := in.SMA50.V

	switch {
	case in.Price > sma20 && sma20 > sma50:
		return factor(name, 1.5, weight, "Moving averages showing positive crossover")
	case in.Price < sma20 && sma20 < sma50:
		return factor(name, -1.5, weight, "Moving averages aligned to the downside")
	case in.Price > sma20:
		return factor(name, 0.5, weight, "Price recovering above its 20-day average")
	case in.Price < sma20:
		return factor(name, -0.5, weight, "Price slipping below its 20-day average")
	default:
		return factor(name, 0, weight, "Sideways trading pattern observed")
	}
}

// scoreDeviation scores how far the price has moved from SMA20.
// Weight: 0.20
func scoreDeviation(in Inputs) model.FactorScore {
	const name, weight = "SMA20 deviation", 0.20
	if !in.SMA20.Valid || in.SMA20.V == 0 {
		return unavailable(name, weight)
	}
	deviation := (in.Price - in.SMA20.V) / in.SMA20.V * 100 // percentage

	var score float64
	switch {
	case deviation >= 5:
		score = 1.0
	case deviation >= 2:
		score = 0.5
	case deviation > -2:
		score = 0
	case deviation > -5:
		score = -0.5
	default:
		score = -1.0
	}
	return factor(name, score, weight, fmt.Sprintf("Price %+.1f%% from the 20-day average", deviation))
}

// scoreRSI scores the RSI(14) reading. Extremes are scored against the
// prevailing move since they tend to revert.
// Weight: 0.20
func scoreRSI(in Inputs) model.FactorScore {
	const name, weight = "RSI", 0.20
	if !in.RSI.Valid {
		return unavailable(name, weight)
	}
	rsi := in.RSI.V

	var score float64
	var commentary string
	switch {
	case rsi > calculator.RSIOverbought:
		score, commentary = -0.5, fmt.Sprintf("RSI %.0f signals overbought conditions", rsi)
	case rsi >= 55:
		score, commentary = 1.0, fmt.Sprintf("RSI %.0f confirms upward momentum", rsi)
	case rsi > 45:
		score, commentary = 0, fmt.Sprintf("RSI %.0f is neutral", rsi)
	case rsi >= calculator.RSIOversold:
		score, commentary = -1.0, fmt.Sprintf("RSI %.0f shows weakening momentum", rsi)
	default:
		score, commentary = 0.5, fmt.Sprintf("RSI %.0f signals oversold conditions", rsi)
	}
	return factor(name, score, weight, commentary)
}

// scoreMACD scores the MACD line and histogram.
// Weight: 0.20
func scoreMACD(in Inputs) model.FactorScore {
	const name, weight = "MACD", 0.20
	if !in.MACD.Valid || !in.Histogram.Valid {
		return unavailable(name, weight)
	}
	line, hist := in.MACD.V, in.Histogram.V

	switch {
	case hist > 0 && line > 0:
		return factor(name, 1.0, weight, "MACD above zero and rising over its signal")
	case hist > 0:
		return factor(name, 0.5, weight, "MACD turning up through its signal")
	case hist < 0 && line < 0:
		return factor(name, -1.0, weight, "MACD below zero and falling under its signal")
	case hist < 0:
		return factor(name, -0.5, weight, "MACD rolling over below its signal")
	default:
		return factor(name, 0, weight, "MACD flat against its signal")
	}
}

// scoreEMACross scores the EMA12/EMA26 crossover.
// Weight: 0.10
func scoreEMACross(in Inputs) model.FactorScore {
	const name, weight = "EMA cross", 0.10
	if !in.EMA12.Valid || !in.EMA26.Valid {
		return unavailable(name, weight)
	}
	switch {
	case in.EMA12.V > in.EMA26.V:
		return factor(name, 1.0, weight, "Fast EMA holding above the slow EMA")
	case in.EMA12.V < in.EMA26.V:
		return factor(name, -1.0, weight, "Fast EMA holding below the slow EMA")
	default:
		return factor(name, 0, weight, "EMAs converged")
	}
}
