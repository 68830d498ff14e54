package calculator

// RSI thresholds used by RSIStatus.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// RSIStatus classifies an RSI reading.
type RSIStatus string

const (
	StatusOverbought RSIStatus = "overbought"
	StatusOversold   RSIStatus = "oversold"
	StatusNeutral    RSIStatus = "neutral"
)

// LatestValue returns the last defined sample of s.
func LatestValue(s Series) (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Valid {
			return s[i].V, true
		}
	}
	return 0, false
}

// ClassifyRSI maps an RSI value to a status.
func ClassifyRSI(rsi float64) RSIStatus {
	switch {
	case rsi > RSIOverbought:
		return StatusOverbought
	case rsi < RSIOversold:
		return StatusOversold
	default:
		return StatusNeutral
	}
}

// LatestRSIStatus classifies the latest defined RSI sample; neutral when none exists.
func (r Result) LatestRSIStatus() RSIStatus {
	v, ok := LatestValue(r.RSI14)
	if !ok {
		return StatusNeutral
	}
	return ClassifyRSI(v)
}
