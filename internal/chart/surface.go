package chart

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// align is the horizontal anchor of a text label.
type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

// surface wraps an RGBA image with vector and text primitives.
type surface struct {
	img  *image.RGBA
	gc   *draw2dimg.GraphicContext
	face font.Face
}

func newSurface(w, h int, bg color.Color) *surface {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &surface{
		img:  img,
		gc:   draw2dimg.NewGraphicContext(img),
		face: basicfont.Face7x13,
	}
}

// clone returns an independent copy of the surface.
func (s *surface) clone() *surface {
	img := image.NewRGBA(s.img.Bounds())
	draw.Draw(img, img.Bounds(), s.img, s.img.Bounds().Min, draw.Src)
	return &surface{img: img, gc: draw2dimg.NewGraphicContext(img), face: s.face}
}

func (s *surface) fillAnnulus(cx, cy, inner, outer float64, c color.Color) {
	gc := s.gc
	gc.Save()
	defer gc.Restore()

	gc.SetFillRule(draw2d.FillRuleEvenOdd)
	gc.SetFillColor(c)
	gc.BeginPath()
	draw2dkit.Circle(gc, cx, cy, outer)
	gc.MoveTo(cx+inner, cy)
	draw2dkit.Circle(gc, cx, cy, inner)
	gc.Fill()
}

func (s *surface) strokeCircle(cx, cy, r, width float64, c color.Color) {
	gc := s.gc
	gc.SetStrokeColor(c)
	gc.SetLineWidth(width)
	gc.BeginPath()
	draw2dkit.Circle(gc, cx, cy, r)
	gc.Stroke()
}

func (s *surface) line(x1, y1, x2, y2, width float64, c color.Color) {
	gc := s.gc
	gc.SetStrokeColor(c)
	gc.SetLineWidth(width)
	gc.BeginPath()
	gc.MoveTo(x1, y1)
	gc.LineTo(x2, y2)
	gc.Stroke()
}

// polyline strokes the path through pts in order.
func (s *surface) polyline(pts [][2]float64, width float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	gc := s.gc
	gc.SetStrokeColor(c)
	gc.SetLineWidth(width)
	gc.SetLineJoin(draw2d.RoundJoin)
	gc.BeginPath()
	gc.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		gc.LineTo(p[0], p[1])
	}
	gc.Stroke()
}

func (s *surface) fillRect(x1, y1, x2, y2 float64, fill, edge color.Color) {
	gc := s.gc
	gc.SetFillColor(fill)
	gc.SetStrokeColor(edge)
	gc.SetLineWidth(1)
	gc.BeginPath()
	draw2dkit.Rectangle(gc, x1, y1, x2, y2)
	gc.FillStroke()
}

// marker draws a marker of the given size centered on (x, y).
func (s *surface) marker(m Marker, x, y, size float64, fill, edge color.Color) {
	gc := s.gc
	gc.SetFillColor(fill)
	gc.SetStrokeColor(edge)
	gc.SetLineWidth(1)
	gc.BeginPath()

	h := size / 2
	switch m {
	case MarkerNone:
		return
	case MarkerCircle:
		draw2dkit.Circle(gc, x, y, h)
	case MarkerSquare:
		draw2dkit.Rectangle(gc, x-h, y-h, x+h, y+h)
	default:
		// Filled plus: a 12-sided outline with arms a third of the size wide.
		a := size / 6
		pts := [][2]float64{
			{-a, -h}, {a, -h}, {a, -a}, {h, -a}, {h, a}, {a, a},
			{a, h}, {-a, h}, {-a, a}, {-h, a}, {-h, -a}, {-a, -a},
		}
		gc.MoveTo(x+pts[0][0], y+pts[0][1])
		for _, p := range pts[1:] {
			gc.LineTo(x+p[0], y+p[1])
		}
		gc.Close()
	}
	gc.FillStroke()
}

func (s *surface) textWidth(text string) float64 {
	return float64(font.MeasureString(s.face, text).Ceil())
}

// text draws text with its baseline at y. Bold is synthesized by
// re-drawing one pixel to the right.
func (s *surface) text(text string, x, y float64, a align, c color.Color, bold bool) {
	switch a {
	case alignCenter:
		x -= s.textWidth(text) / 2
	case alignRight:
		x -= s.textWidth(text)
	}
	passes := 1
	if bold {
		passes = 2
	}
	for i := 0; i < passes; i++ {
		d := &font.Drawer{
			Dst:  s.img,
			Src:  image.NewUniform(c),
			Face: s.face,
			Dot:  fixed.P(int(math.Round(x))+i, int(math.Round(y))),
		}
		d.DrawString(text)
	}
}

// textHeight is the cap height used to vertically center labels.
func (s *surface) textHeight() float64 {
	return float64(s.face.Metrics().Ascent.Ceil())
}
