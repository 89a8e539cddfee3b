// Package report summarizes plotted Kiviat samples per axis and
// writes them as JSON or human-readable text.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/kiviat/internal/config"
	"github.com/unbound-force/kiviat/internal/metrics"
	"github.com/unbound-force/kiviat/internal/scale"
)

// Version is the report format version.
const Version = "0.1.0"

// AxisRow is one axis of one sample.
type AxisRow struct {
	Title         string     `json:"title"`
	Value         float64    `json:"value"`
	Radius        float64    `json:"radius"`
	Zone          scale.Zone `json:"zone"`
	AcceptableMin float64    `json:"acceptable_min"`
	AcceptableMax float64    `json:"acceptable_max"`
	Limit         float64    `json:"limit"`

	// Missing is true when the value was substituted with 0.
	Missing bool `json:"missing,omitempty"`
}

// SampleReport is the per-axis breakdown of one plotted sample.
type SampleReport struct {
	Label   string    `json:"label"`
	Axes    []AxisRow `json:"axes"`
	Outside int       `json:"outside"`
	Missing int       `json:"missing"`
}

// Report is the complete output of a render.
type Report struct {
	Version string         `json:"version"`
	Image   string         `json:"image,omitempty"`
	Samples []SampleReport `json:"samples"`
}

// Build computes the per-axis rows for each sample. Sample values must
// be index-aligned with reg.
func Build(reg config.Registry, b scale.Bounds, samples []metrics.Sample) *Report {
	rpt := &Report{Version: Version, Samples: []SampleReport{}}
	for _, s := range samples {
		missing := make(map[int]bool, len(s.Missing))
		for _, i := range s.Missing {
			missing[i] = true
		}

		sr := SampleReport{Label: s.Label, Axes: make([]AxisRow, 0, reg.Len())}
		for i := 0; i < reg.Len() && i < len(s.Values); i++ {
			spec := reg.At(i)
			v := s.Values[i]
			row := AxisRow{
				Title:         spec.Title,
				Value:         v,
				Radius:        scale.Scale(v, spec, b),
				Zone:          scale.ZoneOf(v, spec),
				AcceptableMin: spec.AcceptableMin,
				AcceptableMax: spec.AcceptableMax,
				Limit:         spec.Limit,
				Missing:       missing[i],
			}
			if row.Zone.Outside() {
				sr.Outside++
			}
			if row.Missing {
				sr.Missing++
			}
			sr.Axes = append(sr.Axes, row)
		}
		rpt.Samples = append(rpt.Samples, sr)
	}
	return rpt
}

// MaxOutside returns the largest per-sample count of axes outside the
// acceptable range.
func (r *Report) MaxOutside() int {
	n := 0
	for _, s := range r.Samples {
		n = max(n, s.Outside)
	}
	return n
}

// WriteJSON writes the report as formatted JSON to the writer.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
