package calculator

import (
	"strconv"
)

// Value is one indicator sample. Valid is false where there is not enough
// history to compute the indicator at that index.
type Value struct {
	V     float64
	Valid bool
}

// Some wraps a defined value.
func Some(v float64) Value { return Value{V: v, Valid: true} }

// None is the undefined sample.
var None = Value{}

// MarshalJSON encodes an undefined sample as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.V, 'g', -1, 64), nil
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// Series is an indicator aligned 1:1 with the price series it was computed from.
type Series []Value

// seriesOf wraps fully defined values.
func seriesOf(values []float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Some(v)
	}
	return s
}
