package calculator

// MACDResult holds the three aligned MACD series.
type MACDResult struct {
	Line      Series `json:"macd"`
	Signal    Series `json:"signal"`
	Histogram Series `json:"histogram"`
}

// MACD computes EMA(fast)-EMA(slow), its EMA(signal) and their difference.
// EMA never leaves gaps, so all three series are defined at every index,
// including the warm-up bars.
func MACD(prices []float64, fast, slow, signal int) *MACDResult {
	emaFast := emaValues(prices, fast)
	emaSlow := emaValues(prices, slow)

	line := make([]float64, len(prices))
	for i := range prices {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig := emaValues(line, signal)
	hist := make([]float64, len(prices))
	for i := range line {
		hist[i] = line[i] - sig[i]
	}

	return &MACDResult{
		Line:      seriesOf(line),
		Signal:    seriesOf(sig),
		Histogram: seriesOf(hist),
	}
}
