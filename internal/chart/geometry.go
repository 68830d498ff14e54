// Package chart maps price and indicator series onto a fixed-size drawing
// surface. It only produces coordinates; drawing is left to the caller.
package chart

import (
	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// Default canvas used by the price chart.
const (
	DefaultWidth   = 800
	DefaultHeight  = 300
	DefaultPadding = 40

	rangePadding = 0.1
)

// Geometry describes a logical canvas with uniform padding on all sides.
type Geometry struct {
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
	Padding float64 `json:"padding" yaml:"padding"`
}

// DefaultGeometry returns the 800x300 canvas with 40 padding.
func DefaultGeometry() Geometry {
	return Geometry{Width: DefaultWidth, Height: DefaultHeight, Padding: DefaultPadding}
}

// Range is the value interval mapped onto the drawable height.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PriceRange returns the close-price extrema widened by 10% of their span
// above and below. An empty series maps to [0,100].
func PriceRange(closes []float64) Range {
	min, max, ok := calculator.Extrema(closes)
	if !ok {
		return Range{Min: 0, Max: 100}
	}
	return padded(min, max)
}

func padded(min, max float64) Range {
	pad := (max - min) * rangePadding
	r := Range{Min: min - pad, Max: max + pad}
	if r.Max == r.Min {
		r.Min--
		r.Max++
	}
	return r
}

// Point is a coordinate on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PricePoint is a price marker carrying the bar it was built from.
type PricePoint struct {
	Point
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

// X maps index i of a series of length n. A single point sits at the
// horizontal center.
func (g Geometry) X(i, n int) float64 {
	inner := g.Width - 2*g.Padding
	if n <= 1 {
		return g.Padding + inner/2
	}
	return g.Padding + (float64(i)/float64(n-1))*inner
}

// Y maps v into the drawable height. Larger values are drawn higher.
func (g Geometry) Y(v float64, r Range) float64 {
	inner := g.Height - 2*g.Padding
	span := r.Max - r.Min
	if span == 0 {
		return g.Padding + inner/2
	}
	return g.Padding + (1-(v-r.Min)/span)*inner
}

// Points maps the defined samples of s. Undefined samples are omitted, so
// a series with a warm-up prefix starts later on the x axis.
func (g Geometry) Points(s calculator.Series, n int, r Range) []Point {
	points := make([]Point, 0, len(s))
	for i, v := range s {
		if !v.Valid {
			continue
		}
		points = append(points, Point{X: g.X(i, n), Y: g.Y(v.V, r)})
	}
	return points
}

// PricePoints maps every bar close.
func (g Geometry) PricePoints(bars []model.PriceBar, r Range) []PricePoint {
	points := make([]PricePoint, len(bars))
	for i, b := range bars {
		points[i] = PricePoint{
			Point: Point{X: g.X(i, len(bars)), Y: g.Y(b.Close, r)},
			Price: b.Close,
			Date:  b.Date,
		}
	}
	return points
}
