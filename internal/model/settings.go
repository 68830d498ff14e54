package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownIndicator = errors.New("unknown indicator")
	ErrUnknownPeriod    = errors.New("unknown time period")
)

// IndicatorKey identifies a toggleable indicator.
type IndicatorKey string

const (
	SMA20 IndicatorKey = "sma20"
	SMA50 IndicatorKey = "sma50"
	EMA12 IndicatorKey = "ema12"
	EMA26 IndicatorKey = "ema26"
	RSI   IndicatorKey = "rsi"
	MACD  IndicatorKey = "macd"
)

// IndicatorKeys lists every key in display order.
var IndicatorKeys = []IndicatorKey{SMA20, SMA50, EMA12, EMA26, RSI, MACD}

// ParseIndicatorKey accepts keys case-insensitively.
func ParseIndicatorKey(s string) (IndicatorKey, error) {
	k := IndicatorKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range IndicatorKeys {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIndicator, s)
}

// IndicatorSettings holds the enabled flag of each indicator.
// It is a value type so copies never alias.
type IndicatorSettings struct {
	SMA20 bool `json:"sma20"`
	SMA50 bool `json:"sma50"`
	EMA12 bool `json:"ema12"`
	EMA26 bool `json:"ema26"`
	RSI   bool `json:"rsi"`
	MACD  bool `json:"macd"`
}

// DefaultSettings enables the two simple moving averages.
func DefaultSettings() IndicatorSettings {
	return IndicatorSettings{SMA20: true, SMA50: true}
}

func (s *IndicatorSettings) flag(key IndicatorKey) *bool {
	switch key {
	case SMA20:
		return &s.SMA20
	case SMA50:
		return &s.SMA50
	case EMA12:
		return &s.EMA12
	case EMA26:
		return &s.EMA26
	case RSI:
		return &s.RSI
	case MACD:
		return &s.MACD
	}
	return nil
}

// Enabled reports whether key is enabled. Unknown keys are never enabled.
func (s IndicatorSettings) Enabled(key IndicatorKey) bool {
	if f := s.flag(key); f != nil {
		return *f
	}
	return false
}

// Toggled returns a copy of s with exactly the flag for key flipped.
func (s IndicatorSettings) Toggled(key IndicatorKey) (IndicatorSettings, error) {
	f := s.flag(key)
	if f == nil {
		return s, fmt.Errorf("%w: %q", ErrUnknownIndicator, key)
	}
	*f = !*f
	return s, nil
}

// EnabledKeys returns the enabled keys in display order.
func (s IndicatorSettings) EnabledKeys() []IndicatorKey {
	var keys []IndicatorKey
	for _, k := range IndicatorKeys {
		if s.Enabled(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// TimePeriod is the selected chart window.
type TimePeriod string

const (
	Period1D TimePeriod = "1D"
	Period1W TimePeriod = "1W"
	Period1M TimePeriod = "1M"
	Period3M TimePeriod = "3M"
	Period6M TimePeriod = "6M"
	Period1Y TimePeriod = "1Y"
)

// DefaultPeriod is used when nothing else is configured.
const DefaultPeriod = Period3M

// Periods lists every period in ascending order.
var Periods = []TimePeriod{Period1D, Period1W, Period1M, Period3M, Period6M, Period1Y}

var lookbacks = map[TimePeriod]int{
	Period1D: 1,
	Period1W: 5,
	Period1M: 21,
	Period3M: 63,
	Period6M: 126,
	Period1Y: 252,
}

// ParsePeriod accepts periods case-insensitively.
func ParsePeriod(s string) (TimePeriod, error) {
	p := TimePeriod(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := lookbacks[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// Lookback returns the number of trading days covered by p, or 0 when p is unknown.
func (p TimePeriod) Lookback() int {
	return lookbacks[p]
}
