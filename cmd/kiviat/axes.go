package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/unbound-force/kiviat/internal/config"
	"github.com/unbound-force/kiviat/internal/layout"
	"github.com/unbound-force/kiviat/internal/metrics"
	"github.com/unbound-force/kiviat/internal/report"
	"gopkg.in/yaml.v3"
)

// axesTable renders the registry in plotting order, with the angle
// each axis is drawn at.
func axesTable(reg config.Registry) *table.Table {
	s := report.DefaultStyles()
	angles := layout.Angles(reg.Len())

	rows := make([][]string, 0, reg.Len())
	for i, a := range reg.Axes() {
		rows = append(rows, []string{
			strconv.Itoa(i),
			a.Title,
			fmt.Sprintf("%g-%g/%g", a.AcceptableMin, a.AcceptableMax, a.Limit),
			strconv.FormatFloat(angles[i], 'f', 1, 64),
			metricText(a.Metric),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 4 {
				return s.Muted
			}
			return s.TableCell
		}).
		Headers("#", "AXIS", "RANGE/LIMIT", "ANGLE", "METRIC").
		Rows(rows...)
}

// metricText describes how a metric value is computed.
func metricText(m metrics.Metric) string {
	out := m.Key.String()
	if out == "" {
		return "-"
	}
	if !m.Per.IsZero() {
		out += " / " + m.Per.String()
	}
	if m.Factor != 0 && m.Factor != 1 {
		out += fmt.Sprintf(" * %g", m.Factor)
	}
	if m.Offset != 0 {
		out += fmt.Sprintf(" %+g", m.Offset)
	}
	return out
}

// writeConfigYAML writes cfg in config file form.
func writeConfigYAML(w io.Writer, cfg *config.KiviatConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
