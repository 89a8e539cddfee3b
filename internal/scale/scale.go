// Package scale maps raw metric values onto the shared normalized
// radial range of a Kiviat chart.
//
// Every axis is scaled by the same three-zone piecewise-linear law:
//
//	[0, acceptable_min]     → [0, lower]
//	[acceptable_min, max]   → [lower, upper]
//	[acceptable_max, limit] → [upper, scale_limit]
//	(limit, ∞)              → scale_limit
//
// so the acceptable range of every axis lands in the same annulus
// regardless of its units.
package scale

import "github.com/unbound-force/kiviat/internal/config"

// Bounds holds the chart-wide radial constants.
type Bounds struct {
	ScaleLimit float64
	Lower      float64
	Upper      float64
}

// BoundsOf returns the bounds configured for a chart.
func BoundsOf(c config.ChartConfig) Bounds {
	return Bounds{ScaleLimit: c.ScaleLimit, Lower: c.LowerBound, Upper: c.UpperBound}
}

// Scale returns the normalized radius of value on an axis configured
// by spec. The result is not rounded.
//
// spec must satisfy 0 < AcceptableMin < AcceptableMax <= Limit
// (config.Validate enforces this); an AcceptableMin of 0 divides by
// zero. Negative values map to 0.
func Scale(value float64, spec config.AxisSpec, b Bounds) float64 {
	var r float64
	switch {
	case value <= spec.AcceptableMin:
		r = value / spec.AcceptableMin * b.Lower
	case value <= spec.AcceptableMax:
		r = b.Lower + (value-spec.AcceptableMin)/(spec.AcceptableMax-spec.AcceptableMin)*(b.Upper-b.Lower)
	case value <= spec.Limit:
		r = b.Upper + (value-spec.AcceptableMax)/(spec.Limit-spec.AcceptableMax)*(b.ScaleLimit-b.Upper)
	default:
		return b.ScaleLimit
	}
	if r < 0 {
		return 0
	}
	return r
}

// Zone classifies a raw value relative to an axis's ranges.
type Zone string

// Zone constants, in scaling order.
const (
	ZoneBelow       Zone = "below"
	ZoneAcceptable  Zone = "acceptable"
	ZoneAbove       Zone = "above"
	ZoneBeyondLimit Zone = "beyond_limit"
)

// ZoneOf returns the scaling zone value falls into. A value equal to
// acceptable_min scales exactly to Lower and counts as acceptable.
func ZoneOf(value float64, spec config.AxisSpec) Zone {
	switch {
	case value < spec.AcceptableMin:
		return ZoneBelow
	case value <= spec.AcceptableMax:
		return ZoneAcceptable
	case value <= spec.Limit:
		return ZoneAbove
	default:
		return ZoneBeyondLimit
	}
}

// Outside reports whether the zone lies outside the acceptable range.
func (z Zone) Outside() bool {
	return z != ZoneAcceptable
}
