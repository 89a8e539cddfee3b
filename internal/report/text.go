package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/unbound-force/kiviat/internal/scale"
)

// WriteText writes the report as human-readable styled text to the
// writer. Output uses lipgloss for color and formatting when the output
// is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, r *Report) error {
	s := DefaultStyles()

	if len(r.Samples) == 0 {
		fmt.Fprintln(w, s.Muted.Render("No samples plotted."))
		return nil
	}

	for i, sample := range r.Samples {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeOneSample(w, sample, s)
	}

	if r.Image != "" {
		fmt.Fprintf(w, "\n%s  %s\n", s.SummaryLabel.Render("Chart written to:"), r.Image)
	}
	return nil
}

// Table renders one sample's axes as a lipgloss table.
func Table(sample SampleReport, s Styles, border lipgloss.Border) *table.Table {
	rows := make([][]string, 0, len(sample.Axes))
	for _, a := range sample.Axes {
		value := strconv.FormatFloat(a.Value, 'f', 2, 64)
		if a.Missing {
			value += "*"
		}
		rows = append(rows, []string{
			a.Title,
			value,
			fmt.Sprintf("%g-%g/%g", a.AcceptableMin, a.AcceptableMax, a.Limit),
			fmt.Sprintf("%.1f", a.Radius),
			string(a.Zone),
		})
	}

	return table.New().
		Border(border).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			// Color the zone column based on zone value.
			if col == 4 && row >= 0 && row < len(rows) {
				return s.ZoneStyle(scale.Zone(rows[row][4]))
			}
			return s.TableCell
		}).
		Headers("AXIS", "VALUE", "RANGE/LIMIT", "RADIUS", "ZONE").
		Rows(rows...)
}

func writeOneSample(w io.Writer, sample SampleReport, s Styles) {
	label := sample.Label
	if label == "" {
		label = "sample"
	}
	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", label)))
	fmt.Fprintln(w, Table(sample, s, lipgloss.NormalBorder()))

	outside := fmt.Sprintf("%d/%d", sample.Outside, len(sample.Axes))
	if sample.Outside > 0 {
		outside = s.Fail.Render(outside)
	} else {
		outside = s.Pass.Render(outside)
	}
	fmt.Fprintf(w, "%s  %s\n", s.SummaryLabel.Render("Outside range:"), outside)
	if sample.Missing > 0 {
		fmt.Fprintf(w, "%s  %s\n", s.SummaryLabel.Render("Missing metrics:"),
			s.Muted.Render(fmt.Sprintf("%d (* plotted as 0)", sample.Missing)))
	}
}
