// Package config defines the Kiviat axis registry and chart-wide
// settings, their defaults, and loading from a .kiviat.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/unbound-force/kiviat/internal/metrics"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up in the working
// directory when no explicit path is given.
const DefaultFileName = ".kiviat.yaml"

// AxisSpec configures one axis of the chart. The acceptable range
// [AcceptableMin, AcceptableMax] is always drawn into the shared
// acceptable band; Limit is the ceiling beyond which values are
// clamped to the chart edge.
type AxisSpec struct {
	Title         string  `yaml:"title"`
	AcceptableMin float64 `yaml:"acceptable_min"`
	AcceptableMax float64 `yaml:"acceptable_max"`
	Limit         float64 `yaml:"limit"`

	// TickCount is the number of tick intervals between 0 and Limit.
	// Zero means ChartConfig.TickCount.
	TickCount int `yaml:"tick_count,omitempty"`

	// Metric describes where the raw value comes from. It is only
	// used when extracting samples from a metrics tree.
	Metric metrics.Metric `yaml:"metric"`
}

// ChartConfig holds the chart-wide drawing constants.
type ChartConfig struct {
	// ScaleLimit is the outer edge of the normalized radial range.
	ScaleLimit float64 `yaml:"scale_limit"`
	// LowerBound and UpperBound delimit the acceptable band.
	LowerBound float64 `yaml:"lower_bound"`
	UpperBound float64 `yaml:"upper_bound"`
	TickCount  int     `yaml:"tick_count"`

	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	BandColor string `yaml:"band_color"`
	GridColor string `yaml:"grid_color"`
	ImageName string `yaml:"image_name"`
}

// KiviatConfig is the complete configuration.
type KiviatConfig struct {
	Chart ChartConfig `yaml:"chart"`
	Axes  []AxisSpec  `yaml:"axes"`
}

// DefaultChart returns the default chart-wide settings.
func DefaultChart() ChartConfig {
	return ChartConfig{
		ScaleLimit: 300,
		LowerBound: 100,
		UpperBound: 200,
		TickCount:  5,
		Title:      "Kiviat Metrics Graph",
		Width:      1000,
		Height:     900,
		BandColor:  "#acfc8c",
		GridColor:  "#0d7f7f",
		ImageName:  "kiviat.png",
	}
}

// DefaultAxes returns the seven standard code-quality axes.
func DefaultAxes() []AxisSpec {
	k := metrics.MustParseKey
	return []AxisSpec{
		{
			Title: "% Comments [15-25]", AcceptableMin: 15, AcceptableMax: 25, Limit: 50,
			Metric: metrics.Metric{
				Key:    k("std.code.lines/comments/total"),
				Per:    k("std.code.lines/total/total"),
				Factor: 100,
			},
		},
		{
			Title: "Avg Complexity [2.0-4.5]", AcceptableMin: 2.0, AcceptableMax: 4.5, Limit: 9,
			// The tree counts decision points from zero.
			Metric: metrics.Metric{Key: k("std.code.complexity/cyclomatic/avg"), Offset: 1},
		},
		{
			Title: "Avg Depth [1.0-2.5]", AcceptableMin: 1.0, AcceptableMax: 2.5, Limit: 5,
			Metric: metrics.Metric{Key: k("std.code.complexity/maxindent/avg")},
		},
		{
			Title: "Max Depth [3-6]", AcceptableMin: 3, AcceptableMax: 6, Limit: 12,
			Metric: metrics.Metric{Key: k("std.code.complexity/maxindent/max")},
		},
		{
			Title: "Max Complexity [2-8]", AcceptableMin: 2, AcceptableMax: 8, Limit: 16,
			Metric: metrics.Metric{Key: k("std.code.complexity/cyclomatic/max")},
		},
		{
			Title: "Avg Statements/Method [5-10]", AcceptableMin: 5, AcceptableMax: 10, Limit: 20,
			Metric: metrics.Metric{Key: k("std.code.statements/function/avg")},
		},
		{
			Title: "Methods/Class [4-20]", AcceptableMin: 4, AcceptableMax: 20, Limit: 40,
			Metric: metrics.Metric{Key: k("std.code.member/methods/avg")},
		},
	}
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *KiviatConfig {
	return &KiviatConfig{
		Chart: DefaultChart(),
		Axes:  DefaultAxes(),
	}
}

// Load reads a YAML config file over the defaults. Axes given in the
// file replace the default axes entirely, in file order. An empty
// path yields the defaults, unless DefaultFileName exists in the
// working directory.
func Load(path string) (*KiviatConfig, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	var file KiviatConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	cfg.merge(file)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// merge overlays the non-zero values of f onto c.
func (c *KiviatConfig) merge(f KiviatConfig) {
	ch := f.Chart
	if ch.ScaleLimit != 0 {
		c.Chart.ScaleLimit = ch.ScaleLimit
	}
	if ch.LowerBound != 0 {
		c.Chart.LowerBound = ch.LowerBound
	}
	if ch.UpperBound != 0 {
		c.Chart.UpperBound = ch.UpperBound
	}
	if ch.TickCount != 0 {
		c.Chart.TickCount = ch.TickCount
	}
	if ch.Title != "" {
		c.Chart.Title = ch.Title
	}
	if ch.Width != 0 {
		c.Chart.Width = ch.Width
	}
	if ch.Height != 0 {
		c.Chart.Height = ch.Height
	}
	if ch.BandColor != "" {
		c.Chart.BandColor = ch.BandColor
	}
	if ch.GridColor != "" {
		c.Chart.GridColor = ch.GridColor
	}
	if ch.ImageName != "" {
		c.Chart.ImageName = ch.ImageName
	}
	if len(f.Axes) > 0 {
		c.Axes = f.Axes
	}
}

// Metrics returns the per-axis metric descriptors in axis order.
func (c *KiviatConfig) Metrics() []metrics.Metric {
	ms := make([]metrics.Metric, len(c.Axes))
	for i, a := range c.Axes {
		ms[i] = a.Metric
	}
	return ms
}
