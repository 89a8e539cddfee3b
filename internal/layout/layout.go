// Package layout computes the polar geometry of a Kiviat chart: axis
// angles, per-axis tick grids and the shared acceptable band.
//
// Angles are in degrees, measured counter-clockwise from the positive
// x axis, so 90° is the top of the chart.
package layout

import (
	"math"

	"github.com/unbound-force/kiviat/internal/config"
)

// StartAngle is the angle of the first axis.
const StartAngle = 90.0

// Angles returns n evenly spaced axis angles starting at StartAngle,
// each wrapped into [0, 360).
func Angles(n int) []float64 {
	if n <= 0 {
		return nil
	}
	step := 360.0 / float64(n)
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = math.Mod(StartAngle+float64(i)*step, 360)
	}
	return angles
}

// Ticks returns tickCount+1 evenly spaced values from 0 to limit
// inclusive, in the axis's own units.
func Ticks(limit float64, tickCount int) []float64 {
	if tickCount <= 0 {
		return []float64{0}
	}
	ticks := make([]float64, tickCount+1)
	for i := range ticks {
		ticks[i] = limit / float64(tickCount) * float64(i)
	}
	return ticks
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Band is the annulus every axis's acceptable range is scaled into.
type Band struct {
	Inner float64
	Outer float64
}

// Grid is one axis's tick grid. Labels are in the axis's natural units
// (0..limit); Radii are the normalized positions they are drawn at.
// The two scales differ: a label's position does not equal the scaled
// position of the same raw value.
type Grid struct {
	Angle  float64
	Labels []float64
	Radii  []float64
}

// Layout is the full geometry for a registry of axes.
type Layout struct {
	Angles     []float64
	Grids      []Grid
	Band       Band
	ScaleLimit float64
}

// New computes the layout for reg on a chart with the given settings.
func New(reg config.Registry, ch config.ChartConfig) Layout {
	angles := Angles(reg.Len())
	grids := make([]Grid, reg.Len())
	for i := range grids {
		spec := reg.At(i)
		grids[i] = Grid{
			Angle:  angles[i],
			Labels: Ticks(spec.Limit, spec.TickCount),
			Radii:  Ticks(ch.ScaleLimit, spec.TickCount),
		}
	}
	return Layout{
		Angles:     angles,
		Grids:      grids,
		Band:       Band{Inner: ch.LowerBound, Outer: ch.UpperBound},
		ScaleLimit: ch.ScaleLimit,
	}
}
