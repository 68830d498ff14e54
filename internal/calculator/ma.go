package calculator

// SMA computes the simple moving average of prices over period.
// Index i is undefined while i < period-1; afterwards it is the mean of the
// trailing period closes ending at i.
func SMA(prices []float64, period int) Series {
	sma := make(Series, len(prices))
	if period <= 0 {
		return sma
	}
	for i := range prices {
		if i < period-1 {
			continue
		}
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += prices[j]
		}
		sma[i] = Some(sum / float64(period))
	}
	return sma
}
