package calculator

import "math"

// Extrema returns the minimum and maximum of values. ok is false when values is empty.
func Extrema(values []float64) (min, max float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}

// SeriesExtrema is Extrema over the defined samples of one or more series.
func SeriesExtrema(series ...Series) (min, max float64, ok bool) {
	var defined []float64
	for _, s := range series {
		for _, v := range s {
			if v.Valid {
				defined = append(defined, v.V)
			}
		}
	}
	return Extrema(defined)
}
