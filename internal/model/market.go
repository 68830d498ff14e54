package model

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for PriceBar.Date.
const DateLayout = "2006-01-02"

// ErrUnorderedSeries is returned when bar dates are not strictly increasing.
var ErrUnorderedSeries = errors.New("price series dates must be strictly increasing")

// PriceBar represents a single daily OHLCV bar.
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Time parses the bar date. The zero time is returned for a malformed date.
func (b PriceBar) Time() time.Time {
	t, err := time.Parse(DateLayout, b.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Closes extracts the close prices in order.
func Closes(bars []PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// ValidateSeries checks the ordering and value invariants of a price series.
// An empty series is valid.
func ValidateSeries(bars []PriceBar) error {
	var prev time.Time
	for i, b := range bars {
		t, err := time.Parse(DateLayout, b.Date)
		if err != nil {
			return fmt.Errorf("bar %d: bad date %q: %w", i, b.Date, err)
		}
		if i > 0 && !t.After(prev) {
			return fmt.Errorf("bar %d (%s): %w", i, b.Date, ErrUnorderedSeries)
		}
		if b.Open < 0 || b.High < 0 || b.Low < 0 || b.Close < 0 || b.Volume < 0 {
			return fmt.Errorf("bar %d (%s): negative value", i, b.Date)
		}
		prev = t
	}
	return nil
}
