package chart

import (
	"fmt"
	"testing"

	"StockLens/internal/calculator"
	"StockLens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFrom(closes ...float64) []model.PriceBar {
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{Date: fmt.Sprintf("2024-01-%02d", i+1), Close: c}
	}
	return bars
}

func TestPriceRange(t *testing.T) {
	r := PriceRange([]float64{10, 20, 15})
	assert.InDelta(t, 9, r.Min, 1e-12)
	assert.InDelta(t, 21, r.Max, 1e-12)

	assert.Equal(t, Range{Min: 0, Max: 100}, PriceRange(nil))
	assert.Equal(t, Range{Min: 4, Max: 6}, PriceRange([]float64{5, 5}))
}

func TestXY(t *testing.T) {
	g := DefaultGeometry()

	assert.Equal(t, 40.0, g.X(0, 11))
	assert.Equal(t, 760.0, g.X(10, 11))
	assert.Equal(t, 400.0, g.X(5, 11))
	assert.Equal(t, 400.0, g.X(0, 1), "single point is centered")

	r := Range{Min: 0, Max: 100}
	assert.Equal(t, 260.0, g.Y(0, r), "min is drawn at the bottom")
	assert.Equal(t, 40.0, g.Y(100, r), "max is drawn at the top")
	assert.Equal(t, 150.0, g.Y(50, r))
	assert.Equal(t, 150.0, g.Y(7, Range{Min: 3, Max: 3}))
}

func TestPoints_SkipsUndefined(t *testing.T) {
	g := DefaultGeometry()
	s := calculator.Series{calculator.None, calculator.None, calculator.Some(50), calculator.Some(100)}
	points := g.Points(s, 4, Range{Min: 0, Max: 100})

	require.Len(t, points, 2)
	assert.Equal(t, g.X(2, 4), points[0].X)
	assert.Equal(t, 150.0, points[0].Y)
	assert.Equal(t, 760.0, points[1].X)
}

func TestSVGPath(t *testing.T) {
	assert.Equal(t, "", SVGPath(nil))
	assert.Equal(t, "M40,260L760,40", SVGPath([]Point{{40, 260}, {760, 40}}))
}

func TestBuild_DefaultSettings(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = float64(100 + i%9)
	}
	bars := barsFrom(closes...)
	res := calculator.ComputeBars(bars)
	g := DefaultGeometry()

	l := g.Build(bars, res, model.DefaultSettings())
	require.Len(t, l.Points, 60)
	assert.Equal(t, bars[3].Date, l.Points[3].Date)
	assert.NotEmpty(t, l.Path)
	require.Len(t, l.Overlays, 2)
	assert.Equal(t, "sma20", l.Overlays[0].Key)
	assert.Len(t, l.Overlays[0].Points, 60-19)
	assert.Len(t, l.Overlays[1].Points, 60-49)
	assert.Empty(t, l.Oscillators)
}

func TestBuild_EMAStartsAtZero(t *testing.T) {
	bars := barsFrom(10, 12, 11, 13, 14)
	res := calculator.ComputeBars(bars)
	g := DefaultGeometry()

	settings := model.IndicatorSettings{EMA12: true, RSI: true, MACD: true}
	l := g.Build(bars, res, settings)

	require.Len(t, l.Overlays, 1)
	assert.Len(t, l.Overlays[0].Points, 5)
	assert.Equal(t, g.Padding, l.Overlays[0].Points[0].X)

	require.Len(t, l.Oscillators, 2)
	assert.Equal(t, model.RSI, l.Oscillators[0].Name)
	assert.Empty(t, l.Oscillators[0].Lines[0].Points, "RSI(14) is undefined for five bars")
	assert.Equal(t, "", l.Oscillators[0].Lines[0].Path)
	assert.Equal(t, model.MACD, l.Oscillators[1].Name)
	assert.Len(t, l.Oscillators[1].Lines, 3)
	assert.Len(t, l.Oscillators[1].Lines[2].Points, 5)
}

func TestBuild_Empty(t *testing.T) {
	l := DefaultGeometry().Build(nil, calculator.Result{}, model.DefaultSettings())
	assert.Empty(t, l.Points)
	assert.Equal(t, "", l.Path)
	assert.Empty(t, l.Overlays)
	assert.Equal(t, Range{Min: 0, Max: 100}, l.Range)
}
