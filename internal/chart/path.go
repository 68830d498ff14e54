package chart

import (
	"strconv"
	"strings"
)

// SVGPath renders points as an SVG path ("M x,y L x,y ..."). No points
// render as an empty string.
func SVGPath(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range points {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
	}
	return b.String()
}

func pricePath(points []PricePoint) string {
	plain := make([]Point, len(points))
	for i, p := range points {
		plain[i] = p.Point
	}
	return SVGPath(plain)
}
