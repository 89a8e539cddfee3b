// Package chart renders Kiviat (radar) charts: one radial axis per
// metric around a shared origin, a highlighted acceptable band, and
// one closed polygon per plotted sample.
//
// A Chart is not safe for concurrent use. Plot calls append to a
// single drawing surface and must be sequenced by the caller.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/unbound-force/kiviat/internal/config"
	"github.com/unbound-force/kiviat/internal/layout"
	"github.com/unbound-force/kiviat/internal/scale"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DigitCount is the number of decimal digits vertex annotations are
// rounded to.
const DigitCount = 2

// titlePad is the pixel gap between the chart edge and axis titles.
const titlePad = 30

// tickMark is the half-length of an axis tick mark in pixels.
const tickMark = 4.0

// annotationOffset is the (right, up) pixel offset of a vertex label.
var annotationOffset = [2]float64{6, 7}

var (
	background  = drawing.ColorWhite
	textColor   = drawing.ColorBlack
	tickColor   = drawing.ColorFromHex("c8c8c8")
	tickLabelFg = drawing.ColorFromHex("707070")
)

// NormalizedPoint is one polygon vertex. Angle is in radians, Radius in
// the normalized [0, ScaleLimit] range, Value the raw input.
type NormalizedPoint struct {
	Angle  float64
	Radius float64
	Value  float64
}

// Annotation is a vertex label placed in image coordinates.
type Annotation struct {
	Text string
	X, Y float64
}

// Polygon is one plotted sample.
type Polygon struct {
	Style Style

	// Points holds one vertex per axis followed by a copy of the first
	// vertex, closing the shape.
	Points []NormalizedPoint

	Annotations []Annotation
}

// Chart owns the axis registry, the derived layout and the drawing
// surface.
type Chart struct {
	cfg    config.ChartConfig
	reg    config.Registry
	layout layout.Layout
	bounds scale.Bounds

	surf   *surface
	cx, cy float64
	radius float64

	polygons []Polygon
}

// New validates cfg, computes the layout and draws the static frame:
// acceptable band, grid, axis titles and tick labels.
func New(cfg *config.KiviatConfig) (*Chart, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := cfg.Registry()
	ch := cfg.Chart
	c := &Chart{
		cfg:    ch,
		reg:    reg,
		layout: layout.New(reg, ch),
		bounds: scale.BoundsOf(ch),
		surf:   newSurface(ch.Width, ch.Height, background),
		cx:     float64(ch.Width) / 2,
		// Leave room above the plot for the title.
		cy:     float64(ch.Height)/2 + 20,
		radius: 0.65 * float64(min(ch.Width, ch.Height)) / 2,
	}
	c.drawFrame()
	return c, nil
}

// Registry returns the chart's axes.
func (c *Chart) Registry() config.Registry { return c.reg }

// Polygons returns the samples plotted so far, in plot order.
func (c *Chart) Polygons() []Polygon {
	cp := make([]Polygon, len(c.polygons))
	copy(cp, c.polygons)
	return cp
}

// Point converts an angle in degrees and a normalized radius to image
// coordinates.
func (c *Chart) Point(angleDeg, r float64) (x, y float64) {
	rad := layout.Radians(angleDeg)
	px := r / c.bounds.ScaleLimit * c.radius
	return c.cx + px*math.Cos(rad), c.cy - px*math.Sin(rad)
}

func (c *Chart) drawFrame() {
	s := c.surf
	band, _ := config.ParseColor(c.cfg.BandColor)
	grid, _ := config.ParseColor(c.cfg.GridColor)

	inner := c.layout.Band.Inner / c.bounds.ScaleLimit * c.radius
	outer := c.layout.Band.Outer / c.bounds.ScaleLimit * c.radius
	s.fillAnnulus(c.cx, c.cy, inner, outer, band)

	for _, r := range layout.Ticks(c.bounds.ScaleLimit, c.cfg.TickCount)[1:] {
		s.strokeCircle(c.cx, c.cy, r/c.bounds.ScaleLimit*c.radius, 1, tickColor)
	}
	s.strokeCircle(c.cx, c.cy, inner, 1, grid)
	s.strokeCircle(c.cx, c.cy, outer, 1, grid)

	for i, g := range c.layout.Grids {
		x, y := c.Point(g.Angle, c.bounds.ScaleLimit)
		s.line(c.cx, c.cy, x, y, 1.5, grid)

		// Each axis carries its own ticks, which need not meet the circles.
		rad := layout.Radians(g.Angle)
		dx, dy := tickMark*math.Sin(rad), tickMark*math.Cos(rad)
		for j := 1; j < len(g.Radii); j++ {
			tx, ty := c.Point(g.Angle, g.Radii[j])
			s.line(tx-dx, ty-dy, tx+dx, ty+dy, 1.5, grid)
			s.text(formatTick(g.Labels[j]), tx+3, ty-3, alignLeft, tickLabelFg, false)
		}

		c.drawAxisTitle(c.reg.At(i).Title, g.Angle)
	}

	s.text(c.cfg.Title, c.cx, c.cy-c.radius-titlePad-30, alignCenter, textColor, true)
}

func (c *Chart) drawAxisTitle(title string, angleDeg float64) {
	rad := layout.Radians(angleDeg)
	dist := c.radius + titlePad
	x := c.cx + dist*math.Cos(rad)
	y := c.cy - dist*math.Sin(rad)

	a := alignCenter
	switch cos := math.Cos(rad); {
	case cos > 0.1:
		a = alignLeft
	case cos < -0.1:
		a = alignRight
	}
	// Center vertically on the anchor point.
	c.surf.text(title, x, y+c.surf.textHeight()/2, a, textColor, false)
}

// Plot scales values (one per axis, in axis order) and draws them as a
// closed polygon. Each vertex is annotated with its raw value rounded
// to DigitCount decimals. Previous polygons are kept.
func (c *Chart) Plot(values []float64, style Style) (Polygon, error) {
	if len(values) != c.reg.Len() {
		return Polygon{}, fmt.Errorf("plot: got %d values for %d axes", len(values), c.reg.Len())
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Polygon{}, fmt.Errorf("plot: value %d (%s) is not finite", i, c.reg.At(i).Title)
		}
	}
	rs, err := style.resolve()
	if err != nil {
		return Polygon{}, fmt.Errorf("plot: %w", err)
	}

	poly := Polygon{Style: style}
	pix := make([][2]float64, 0, len(values)+1)
	for i, v := range values {
		angle := c.layout.Angles[i]
		r := scale.Scale(v, c.reg.At(i), c.bounds)
		poly.Points = append(poly.Points, NormalizedPoint{Angle: layout.Radians(angle), Radius: r, Value: v})

		x, y := c.Point(angle, r)
		pix = append(pix, [2]float64{x, y})
		poly.Annotations = append(poly.Annotations, Annotation{
			Text: FormatValue(v),
			X:    x + annotationOffset[0],
			Y:    y - annotationOffset[1],
		})
	}
	poly.Points = append(poly.Points, poly.Points[0])
	pix = append(pix, pix[0])

	s := c.surf
	s.polyline(pix, rs.width, rs.line)
	for _, p := range pix[:len(pix)-1] {
		s.marker(rs.marker, p[0], p[1], rs.size, rs.fill, rs.edge)
	}
	for _, a := range poly.Annotations {
		s.text(a.Text, a.X, a.Y, alignLeft, textColor, true)
	}

	c.polygons = append(c.polygons, poly)
	return poly, nil
}

// Image returns a snapshot of the current surface, with a legend when
// more than one labelled sample has been plotted.
func (c *Chart) Image() image.Image {
	snap := c.surf.clone()
	c.drawLegend(snap)
	return snap.img
}

func (c *Chart) drawLegend(s *surface) {
	var labelled []Polygon
	for _, p := range c.polygons {
		if p.Style.Label != "" {
			labelled = append(labelled, p)
		}
	}
	if len(labelled) < 2 {
		return
	}

	x := float64(c.cfg.Width) - 20
	y := 30.0
	for _, p := range labelled {
		rs, err := p.Style.resolve()
		if err != nil {
			continue
		}
		tw := s.textWidth(p.Style.Label)
		s.fillRect(x-tw-34, y-9, x-tw-10, y-1, rs.fill, rs.edge)
		s.text(p.Style.Label, x, y, alignRight, textColor, false)
		y += 18
	}
}

// Encode writes the current surface as PNG to w.
func (c *Chart) Encode(w io.Writer) error {
	return png.Encode(w, c.Image())
}

// Save writes a PNG snapshot of the current surface to path. Calling
// Save again, with the same or another path, writes the surface as it
// is at that time.
func (c *Chart) Save(path string) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("saving chart: %w", cerr)
		}
	}()
	if err := c.Encode(f); err != nil {
		return fmt.Errorf("encoding chart %q: %w", path, err)
	}
	return nil
}

// At returns the color of the surface at (x, y).
func (c *Chart) At(x, y int) color.Color {
	return c.surf.img.At(x, y)
}

// FormatValue renders a raw value the way vertex annotations show it:
// rounded to DigitCount decimals, always with a fractional part.
func FormatValue(v float64) string {
	p := math.Pow(10, DigitCount)
	r := math.Round(v*p) / p
	if r == 0 {
		r = 0 // drop negative zero
	}
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatTick(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
