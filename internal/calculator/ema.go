package calculator

// EMA computes the exponential moving average of prices over period.
// The first value is seeded with the first price, so every index is defined.
func EMA(prices []float64, period int) Series {
	return seriesOf(emaValues(prices, period))
}

func emaValues(prices []float64, period int) []float64 {
	if len(prices) == 0 {
		return []float64{}
	}
	k := 2 / (float64(period) + 1)
	ema := make([]float64, len(prices))
	ema[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		ema[i] = prices[i]*k + ema[i-1]*(1-k)
	}
	return ema
}
