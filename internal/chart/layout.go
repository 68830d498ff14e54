package chart

import (
	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// Line is one mapped series.
type Line struct {
	Key    string  `json:"key"`
	Points []Point `json:"points"`
	Path   string  `json:"path"`
}

// Pane is a secondary chart with its own value range.
type Pane struct {
	Name  model.IndicatorKey `json:"name"`
	Range Range              `json:"range"`
	Lines []Line             `json:"lines"`
}

// Layout is everything the drawing layer needs for one chart.
type Layout struct {
	Geometry    Geometry     `json:"geometry"`
	Range       Range        `json:"range"`
	Points      []PricePoint `json:"points"`
	Path        string       `json:"path"`
	Overlays    []Line       `json:"overlays"`
	Oscillators []Pane       `json:"oscillators,omitempty"`
}

// overlayKeys share the price scale.
var overlayKeys = []model.IndicatorKey{model.SMA20, model.SMA50, model.EMA12, model.EMA26}

var rsiRange = Range{Min: 0, Max: 100}

// Build maps the price series and every enabled, computed indicator.
func (g Geometry) Build(bars []model.PriceBar, res calculator.Result, settings model.IndicatorSettings) Layout {
	n := len(bars)
	r := PriceRange(model.Closes(bars))
	points := g.PricePoints(bars, r)

	l := Layout{
		Geometry: g,
		Range:    r,
		Points:   points,
		Path:     pricePath(points),
		Overlays: []Line{},
	}

	for _, key := range overlayKeys {
		if !settings.Enabled(key) {
			continue
		}
		s, ok := res.Series(key)
		if !ok {
			continue
		}
		l.Overlays = append(l.Overlays, g.line(string(key), s, n, r))
	}

	if settings.RSI && res.RSI14 != nil {
		l.Oscillators = append(l.Oscillators, Pane{
			Name:  model.RSI,
			Range: rsiRange,
			Lines: []Line{g.line(string(model.RSI), res.RSI14, n, rsiRange)},
		})
	}

	if settings.MACD && res.MACD != nil {
		m := res.MACD
		mr := Range{Min: -1, Max: 1}
		if min, max, ok := calculator.SeriesExtrema(m.Line, m.Signal, m.Histogram); ok {
			mr = padded(min, max)
		}
		l.Oscillators = append(l.Oscillators, Pane{
			Name:  model.MACD,
			Range: mr,
			Lines: []Line{
				g.line("macd", m.Line, n, mr),
				g.line("signal", m.Signal, n, mr),
				g.line("histogram", m.Histogram, n, mr),
			},
		})
	}

	return l
}

func (g Geometry) line(key string, s calculator.Series, n int, r Range) Line {
	points := g.Points(s, n, r)
	return Line{Key: key, Points: points, Path: SVGPath(points)}
}
