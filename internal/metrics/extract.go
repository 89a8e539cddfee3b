package metrics

import (
	"errors"
	"fmt"

	charmlog "github.com/charmbracelet/log"
)

// ErrZeroDenominator is returned when a ratio metric's denominator is 0.
var ErrZeroDenominator = errors.New("metric denominator is zero")

// Metric describes how one raw axis value is derived from a Source:
//
//	value = lookup(Key) / lookup(Per) * Factor + Offset
//
// Per is optional; a zero Factor means 1.
type Metric struct {
	Key    Key     `yaml:"key"`
	Per    Key     `yaml:"per,omitempty"`
	Factor float64 `yaml:"factor,omitempty"`
	Offset float64 `yaml:"offset,omitempty"`
}

// Eval computes the metric value from src.
func (m Metric) Eval(src Source) (float64, error) {
	if m.Key.IsZero() {
		return 0, fmt.Errorf("no metric key configured: %w", ErrMissing)
	}
	v, err := src.Lookup(m.Key)
	if err != nil {
		return 0, err
	}
	if !m.Per.IsZero() {
		d, err := src.Lookup(m.Per)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("%s: %w", m.Per, ErrZeroDenominator)
		}
		v /= d
	}
	factor := m.Factor
	if factor == 0 {
		factor = 1
	}
	return v*factor + m.Offset, nil
}

// Sample is one ordered set of raw values, index-aligned with the
// chart's axes, plus the axes that could not be resolved.
type Sample struct {
	Label  string
	Values []float64

	// Missing holds the indices of axes whose value was substituted
	// with 0 because the metric could not be evaluated.
	Missing []int
}

// Extract evaluates each metric against src in order. A metric that
// cannot be evaluated is logged as a warning and contributes 0, so a
// chart is always produced.
func Extract(src Source, ms []Metric, logger *charmlog.Logger) Sample {
	if logger == nil {
		logger = charmlog.Default()
	}

	s := Sample{Values: make([]float64, len(ms))}
	for i, m := range ms {
		v, err := m.Eval(src)
		if err != nil {
			logger.Warn("could not retrieve metric, plotting 0",
				"axis", i, "metric", m.Key.String(), "err", err)
			s.Missing = append(s.Missing, i)
			continue
		}
		s.Values[i] = v
	}
	return s
}
