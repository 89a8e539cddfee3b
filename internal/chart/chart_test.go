package chart

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/unbound-force/kiviat/internal/config"
)

func singleAxisConfig() *config.KiviatConfig {
	cfg := config.DefaultConfig()
	cfg.Axes = []config.AxisSpec{
		{Title: "% Comments [15-25]", AcceptableMin: 15, AcceptableMax: 25, Limit: 50},
	}
	return cfg
}

func newDefaultChart(t *testing.T) *Chart {
	t.Helper()
	c, err := New(config.DefaultConfig())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return c
}

func colorDistance(t *testing.T, c *Chart, x, y int, hex string) float64 {
	t.Helper()
	want, err := config.ParseColor(hex)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := c.At(x, y).RGBA()
	dr := float64(r>>8) - float64(want.R)
	dg := float64(g>>8) - float64(want.G)
	db := float64(b>>8) - float64(want.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Axes[0].AcceptableMin = 0
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestNew_DrawsAcceptableBand(t *testing.T) {
	c := newDefaultChart(t)
	// Angle 0 lies between spokes; radius 150 is mid-band and off the
	// tick circles.
	x, y := c.Point(0, 150)
	if d := colorDistance(t, c, int(x), int(y), "#acfc8c"); d > 3 {
		t.Errorf("pixel at mid-band is %v, want band color (distance %.1f)", c.At(int(x), int(y)), d)
	}
	// Radius 30 is inside the band's hole.
	x, y = c.Point(0, 30)
	if d := colorDistance(t, c, int(x), int(y), "#ffffff"); d > 3 {
		t.Errorf("pixel inside band hole is %v, want background", c.At(int(x), int(y)))
	}
}

func TestPlot_AnnotatesRawValue(t *testing.T) {
	c, err := New(singleAxisConfig())
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	poly, err := c.Plot([]float64{50}, DefaultStyle(0))
	if err != nil {
		t.Fatalf("Plot error: %v", err)
	}
	if len(poly.Annotations) != 1 || poly.Annotations[0].Text != "50.0" {
		t.Errorf("annotations = %+v, want one \"50.0\"", poly.Annotations)
	}
	if poly.Points[0].Radius != 300 {
		t.Errorf("radius = %v, want 300", poly.Points[0].Radius)
	}
	if poly.Points[0].Value != 50 {
		t.Errorf("value = %v, want 50", poly.Points[0].Value)
	}
}

func TestPlot_ScalesAndClosesPolygon(t *testing.T) {
	c := newDefaultChart(t)
	values := []float64{20, 1.0, 1.5, 4, 5, 0, 60}
	poly, err := c.Plot(values, DefaultStyle(0))
	if err != nil {
		t.Fatalf("Plot error: %v", err)
	}

	if len(poly.Points) != len(values)+1 {
		t.Fatalf("got %d points, want %d", len(poly.Points), len(values)+1)
	}
	if poly.Points[len(values)] != poly.Points[0] {
		t.Error("polygon is not closed by repeating the first point")
	}
	if poly.Points[0].Radius != 150 {
		t.Errorf("axis 0 radius = %v, want 150", poly.Points[0].Radius)
	}
	if poly.Points[1].Radius != 50 {
		t.Errorf("axis 1 radius = %v, want 50", poly.Points[1].Radius)
	}
	if poly.Points[5].Radius != 0 {
		t.Errorf("axis 5 radius = %v, want 0", poly.Points[5].Radius)
	}
	if poly.Points[6].Radius != 300 {
		t.Errorf("axis 6 radius = %v, want clamped 300", poly.Points[6].Radius)
	}
	if math.Abs(poly.Points[0].Angle-math.Pi/2) > 1e-12 {
		t.Errorf("axis 0 angle = %v, want pi/2", poly.Points[0].Angle)
	}
	if poly.Annotations[1].Text != "1.0" || poly.Annotations[2].Text != "1.5" {
		t.Errorf("unexpected annotations: %+v", poly.Annotations)
	}
}

func TestPlot_AnnotationOffsetFromVertex(t *testing.T) {
	c := newDefaultChart(t)
	poly, err := c.Plot([]float64{20, 3, 2, 4, 5, 7, 10}, DefaultStyle(0))
	if err != nil {
		t.Fatal(err)
	}
	x, y := c.Point(90, poly.Points[0].Radius)
	a := poly.Annotations[0]
	if math.Abs(a.X-(x+6)) > 1e-9 || math.Abs(a.Y-(y-7)) > 1e-9 {
		t.Errorf("annotation at (%v, %v), want (%v, %v)", a.X, a.Y, x+6, y-7)
	}
}

func TestPlot_WrongValueCount(t *testing.T) {
	c := newDefaultChart(t)
	if _, err := c.Plot([]float64{1, 2, 3}, DefaultStyle(0)); err == nil {
		t.Fatal("expected error for wrong number of values")
	}
	if len(c.Polygons()) != 0 {
		t.Error("a rejected plot must not append a polygon")
	}
}

func TestPlot_NonFiniteRejected(t *testing.T) {
	c := newDefaultChart(t)
	values := []float64{1, 2, math.NaN(), 4, 5, 6, 7}
	if _, err := c.Plot(values, DefaultStyle(0)); err == nil {
		t.Fatal("expected error for NaN value")
	}
}

func TestPlot_BadStyleRejected(t *testing.T) {
	c := newDefaultChart(t)
	st := DefaultStyle(0)
	st.Color = "red"
	if _, err := c.Plot(make([]float64, 7), st); err == nil {
		t.Fatal("expected error for non-hex color")
	}
	st = DefaultStyle(0)
	st.Marker = "star"
	if _, err := c.Plot(make([]float64, 7), st); err == nil {
		t.Fatal("expected error for unknown marker")
	}
}

func TestPlot_OverlaysSamples(t *testing.T) {
	c := newDefaultChart(t)
	for i := 0; i < 3; i++ {
		st := DefaultStyle(i)
		st.Label = filepath.Join("run", string(rune('a'+i)))
		if _, err := c.Plot([]float64{20, 3, 2, 4, 5, 7, 10}, st); err != nil {
			t.Fatal(err)
		}
	}
	polys := c.Polygons()
	if len(polys) != 3 {
		t.Fatalf("got %d polygons, want 3", len(polys))
	}
	if polys[1].Style.Color != DefaultStyle(1).Color {
		t.Errorf("second polygon color = %s", polys[1].Style.Color)
	}
}

func TestPlot_ChangesSurface(t *testing.T) {
	c := newDefaultChart(t)
	x, y := c.Point(90, 150)
	before := c.At(int(x), int(y))
	if _, err := c.Plot([]float64{20, 3, 2, 4, 5, 7, 10}, DefaultStyle(0)); err != nil {
		t.Fatal(err)
	}
	after := c.At(int(x), int(y))
	if before == after {
		t.Errorf("vertex pixel unchanged after Plot: %v", after)
	}
}

func TestSave_WritesPNGSnapshots(t *testing.T) {
	c := newDefaultChart(t)
	if _, err := c.Plot([]float64{20, 3, 2, 4, 5, 7, 10}, DefaultStyle(0)); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	first := filepath.Join(dir, "a.png")
	second := filepath.Join(dir, "b.png")
	if err := c.Save(first); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := c.Save(second); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two saves of the same surface state differ")
	}

	img, err := png.Decode(bytes.NewReader(a))
	if err != nil {
		t.Fatalf("saved file is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 1000 || img.Bounds().Dy() != 900 {
		t.Errorf("image size = %v, want 1000x900", img.Bounds())
	}
}

func TestSave_BadDirectory(t *testing.T) {
	c := newDefaultChart(t)
	if err := c.Save(filepath.Join(t.TempDir(), "missing", "kiviat.png")); err == nil {
		t.Fatal("expected error saving into a missing directory")
	}
}

func TestImage_DoesNotMutateSurface(t *testing.T) {
	c := newDefaultChart(t)
	for i := 0; i < 2; i++ {
		st := DefaultStyle(i)
		st.Label = []string{"before", "after"}[i]
		if _, err := c.Plot([]float64{20, 3, 2, 4, 5, 7, 10}, st); err != nil {
			t.Fatal(err)
		}
	}
	var a, b bytes.Buffer
	if err := c.Encode(&a); err != nil {
		t.Fatal(err)
	}
	if err := c.Encode(&b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("legend drawing leaked into the shared surface")
	}
}

func TestImage_LegendSwatch(t *testing.T) {
	c := newDefaultChart(t)
	for i, label := range []string{"a", "b"} {
		st := DefaultStyle(i)
		st.Label = label
		if _, err := c.Plot([]float64{20, 3, 2, 4, 5, 7, 10}, st); err != nil {
			t.Fatal(err)
		}
	}
	// First entry: label right-aligned at x=980, baseline y=30.
	r, g, b, _ := c.Image().At(951, 25).RGBA()
	if r>>8 < 200 || g>>8 > 80 || b>>8 > 80 {
		t.Errorf("legend swatch pixel = (%d, %d, %d), want red", r>>8, g>>8, b>>8)
	}
	if d := colorDistance(t, c, 951, 25, "#ffffff"); d > 1 {
		t.Errorf("swatch drawn on the shared surface (distance from white %.1f)", d)
	}
}

func TestNew_AxisTickMarks(t *testing.T) {
	cfg := singleAxisConfig()
	cfg.Axes[0].TickCount = 4
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	// Ticks at 75/300 of the radius sit between the chart-wide circles
	// (60 and 120), 73.125px above the center on the vertical spoke.
	if d := colorDistance(t, c, 497, 396, "#0d7f7f"); d > 60 {
		t.Errorf("no tick mark beside the spoke at the first axis tick (distance %.1f)", d)
	}
	// Halfway between two ticks the spoke stands alone.
	if d := colorDistance(t, c, 497, 434, "#ffffff"); d > 1 {
		t.Errorf("unexpected mark between ticks (distance from white %.1f)", d)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50, "50.0"},
		{1.5, "1.5"},
		{2.3456, "2.35"},
		{0, "0.0"},
		{-0.001, "0.0"},
		{12.1, "12.1"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStyleResolve_Defaults(t *testing.T) {
	rs, err := Style{Color: "#00ff00"}.resolve()
	if err != nil {
		t.Fatal(err)
	}
	if rs.width != 1 || rs.marker != MarkerPlus || rs.size != 12 {
		t.Errorf("defaults not applied: %+v", rs)
	}
	if rs.line.A != 255 {
		t.Errorf("zero alpha should be opaque, got %d", rs.line.A)
	}
	rs, err = DefaultStyle(0).resolve()
	if err != nil {
		t.Fatal(err)
	}
	if rs.line.A != 230 {
		t.Errorf("alpha 0.9 → %d, want 230", rs.line.A)
	}
}
