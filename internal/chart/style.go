package chart

import (
	"fmt"

	"github.com/unbound-force/kiviat/internal/config"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Marker is the vertex marker shape.
type Marker string

// Marker shapes.
const (
	MarkerPlus   Marker = "plus"
	MarkerCircle Marker = "circle"
	MarkerSquare Marker = "square"
	MarkerNone   Marker = "none"
)

// Style controls how a polygon is drawn.
type Style struct {
	// Label names the sample in the legend.
	Label string

	// Color and MarkerEdge are hex colors ("#rrggbb").
	Color      string
	MarkerEdge string

	LineWidth  float64
	Marker     Marker
	MarkerSize float64

	// Alpha is the line opacity in [0, 1]. Zero means opaque.
	Alpha float64
}

var palette = []string{"#ff0000", "#1f77b4", "#ff7f0e", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f"}

// DefaultStyle returns the style for the i-th sample on a chart: a
// thin line with a filled plus marker and a black edge, cycling
// through a fixed palette starting with red.
func DefaultStyle(i int) Style {
	return Style{
		Color:      palette[i%len(palette)],
		MarkerEdge: "#000000",
		LineWidth:  1,
		Marker:     MarkerPlus,
		MarkerSize: 12,
		Alpha:      0.9,
	}
}

// resolved is a Style with parsed colors.
type resolved struct {
	line   drawing.Color
	fill   drawing.Color
	edge   drawing.Color
	width  float64
	marker Marker
	size   float64
}

func (s Style) resolve() (resolved, error) {
	line, err := config.ParseColor(s.Color)
	if err != nil {
		return resolved{}, fmt.Errorf("style color: %w", err)
	}
	edge := drawing.ColorBlack
	if s.MarkerEdge != "" {
		if edge, err = config.ParseColor(s.MarkerEdge); err != nil {
			return resolved{}, fmt.Errorf("style marker edge: %w", err)
		}
	}
	if s.Alpha < 0 || s.Alpha > 1 {
		return resolved{}, fmt.Errorf("style alpha %g not in [0, 1]", s.Alpha)
	}
	fill := line
	if s.Alpha > 0 {
		line = line.WithAlpha(uint8(s.Alpha*255 + 0.5))
	}

	r := resolved{
		line:   line,
		fill:   fill,
		edge:   edge,
		width:  s.LineWidth,
		marker: s.Marker,
		size:   s.MarkerSize,
	}
	if r.width <= 0 {
		r.width = 1
	}
	if r.marker == "" {
		r.marker = MarkerPlus
	}
	if r.size <= 0 {
		r.size = 12
	}
	switch r.marker {
	case MarkerPlus, MarkerCircle, MarkerSquare, MarkerNone:
	default:
		return resolved{}, fmt.Errorf("unknown marker %q", s.Marker)
	}
	return r, nil
}
