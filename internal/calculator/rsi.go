package calculator

// RSI computes the relative strength index using simple trailing means of
// gains and losses over period deltas. The result is realigned to the price
// series: index 0 is always undefined because it has no preceding delta.
// A window without losses saturates at 100.
func RSI(prices []float64, period int) Series {
	if len(prices) == 0 {
		return Series{}
	}
	n := len(prices) - 1
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains[i-1] = change
		} else if change < 0 {
			losses[i-1] = -change
		}
	}

	rsi := make(Series, len(prices))
	if period <= 0 {
		return rsi
	}
	for i := 0; i < n; i++ {
		if i < period-1 {
			continue
		}
		var sumGain, sumLoss float64
		for j := i - period + 1; j <= i; j++ {
			sumGain += gains[j]
			sumLoss += losses[j]
		}
		avgGain := sumGain / float64(period)
		avgLoss := sumLoss / float64(period)

		if avgLoss == 0 {
			rsi[i+1] = Some(100)
			continue
		}
		rs := avgGain / avgLoss
		rsi[i+1] = Some(100 - 100/(1+rs))
	}
	return rsi
}
