package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ConfigError reports an invalid configuration value. Configuration
// errors are fatal: no chart is produced.
type ConfigError struct {
	// Field names the offending setting, e.g. "axes[2].acceptable_min".
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration eagerly so that degenerate scaling
// zones never reach the scaler. Each axis must satisfy
// 0 < acceptable_min < acceptable_max <= limit, and the chart bounds
// must satisfy 0 < lower_bound < upper_bound < scale_limit.
func (c *KiviatConfig) Validate() error {
	ch := c.Chart
	if !(ch.LowerBound > 0 && ch.LowerBound < ch.UpperBound && ch.UpperBound < ch.ScaleLimit) {
		return &ConfigError{
			Field: "chart bounds",
			Reason: fmt.Sprintf("need 0 < lower_bound (%g) < upper_bound (%g) < scale_limit (%g)",
				ch.LowerBound, ch.UpperBound, ch.ScaleLimit),
		}
	}
	if ch.TickCount < 1 {
		return &ConfigError{Field: "chart.tick_count", Reason: fmt.Sprintf("%d must be at least 1", ch.TickCount)}
	}
	if ch.Width < 100 || ch.Height < 100 {
		return &ConfigError{Field: "chart size", Reason: fmt.Sprintf("%dx%d is smaller than 100x100", ch.Width, ch.Height)}
	}
	if err := validColor("chart.band_color", ch.BandColor); err != nil {
		return err
	}
	if err := validColor("chart.grid_color", ch.GridColor); err != nil {
		return err
	}
	if strings.ContainsAny(ch.ImageName, `/\`) || ch.ImageName == "" {
		return &ConfigError{Field: "chart.image_name", Reason: fmt.Sprintf("%q must be a plain file name", ch.ImageName)}
	}

	if len(c.Axes) == 0 {
		return &ConfigError{Field: "axes", Reason: "at least one axis is required"}
	}
	for i, a := range c.Axes {
		if err := a.validate(); err != nil {
			err.Field = fmt.Sprintf("axes[%d] (%s).%s", i, a.Title, err.Field)
			return err
		}
	}
	return nil
}

func (a AxisSpec) validate() *ConfigError {
	for _, v := range []float64{a.AcceptableMin, a.AcceptableMax, a.Limit} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ConfigError{Field: "range", Reason: "values must be finite"}
		}
	}
	switch {
	case a.AcceptableMin <= 0:
		return &ConfigError{
			Field:  "acceptable_min",
			Reason: fmt.Sprintf("%g must be greater than 0", a.AcceptableMin),
		}
	case a.AcceptableMin >= a.AcceptableMax:
		return &ConfigError{
			Field:  "acceptable_max",
			Reason: fmt.Sprintf("%g must be greater than acceptable_min %g", a.AcceptableMax, a.AcceptableMin),
		}
	case a.AcceptableMax > a.Limit:
		return &ConfigError{
			Field:  "limit",
			Reason: fmt.Sprintf("%g must not be below acceptable_max %g", a.Limit, a.AcceptableMax),
		}
	case a.TickCount < 0:
		return &ConfigError{Field: "tick_count", Reason: fmt.Sprintf("%d is negative", a.TickCount)}
	}
	return nil
}

// ParseColor parses a "#rrggbb" or "rrggbb" hex color.
func ParseColor(s string) (drawing.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 3 {
		return drawing.Color{}, fmt.Errorf("color %q is not a hex color", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return drawing.Color{}, fmt.Errorf("color %q is not a hex color", s)
		}
	}
	return drawing.ColorFromHex(hex), nil
}

func validColor(field, s string) error {
	if _, err := ParseColor(s); err != nil {
		return &ConfigError{Field: field, Reason: err.Error()}
	}
	return nil
}
