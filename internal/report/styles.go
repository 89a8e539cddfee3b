package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/unbound-force/kiviat/internal/scale"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers (e.g. "=== sample ===").
	Header lipgloss.Style

	// Zone styles color-code where a value falls.
	ZoneBelow       lipgloss.Style
	ZoneAcceptable  lipgloss.Style
	ZoneAbove       lipgloss.Style
	ZoneBeyondLimit lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// SummaryLabel styles summary line labels.
	SummaryLabel lipgloss.Style

	// Pass styles PASS indicators.
	Pass lipgloss.Style

	// Fail styles FAIL indicators.
	Fail lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),

		ZoneBelow:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		ZoneAcceptable:  lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		ZoneAbove:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		ZoneBeyondLimit: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		SummaryLabel: lipgloss.NewStyle().Bold(true).Width(20),

		Pass: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// ZoneStyle returns the appropriate style for a zone.
func (s Styles) ZoneStyle(z scale.Zone) lipgloss.Style {
	switch z {
	case scale.ZoneBelow:
		return s.ZoneBelow
	case scale.ZoneAcceptable:
		return s.ZoneAcceptable
	case scale.ZoneAbove:
		return s.ZoneAbove
	case scale.ZoneBeyondLimit:
		return s.ZoneBeyondLimit
	default:
		return s.Muted
	}
}
