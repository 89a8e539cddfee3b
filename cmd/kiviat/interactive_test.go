package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/unbound-force/kiviat/internal/config"
	"github.com/unbound-force/kiviat/internal/metrics"
	"github.com/unbound-force/kiviat/internal/report"
	"github.com/unbound-force/kiviat/internal/scale"
)

func sampleRenderReport() *report.Report {
	cfg := config.DefaultConfig()
	rpt := report.Build(cfg.Registry(), scale.BoundsOf(cfg.Chart), []metrics.Sample{{
		Label:   "pkg/metrics.json",
		Values:  []float64{20, 1, 10, 6, 5, 7.5, 0},
		Missing: []int{6},
	}})
	rpt.Image = "kiviat.png"
	return rpt
}

// TestRenderReportContent_Empty verifies that a report without samples
// still renders a header with zero counts.
func TestRenderReportContent_Empty(t *testing.T) {
	output := renderReportContent(&report.Report{Version: report.Version})

	if !strings.Contains(output, "0 sample(s)") {
		t.Errorf("expected output to contain '0 sample(s)', got:\n%s", output)
	}
	if !strings.Contains(output, "0 axis value(s) outside range") {
		t.Errorf("expected output to contain zero outside count, got:\n%s", output)
	}
}

// TestRenderReportContent_WithSample verifies that the sample label,
// axis titles, zones and the missing count are all shown.
func TestRenderReportContent_WithSample(t *testing.T) {
	output := renderReportContent(sampleRenderReport())

	for _, want := range []string{
		"1 sample(s)",
		"3 axis value(s) outside range",
		"chart: kiviat.png",
		"=== pkg/metrics.json ===",
		"Avg Depth [1.0-2.5]",
		"beyond_limit",
		"1 missing metric(s) plotted as 0",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

// TestRenderReportContent_NoAxes verifies the placeholder for a sample
// without rows.
func TestRenderReportContent_NoAxes(t *testing.T) {
	rpt := &report.Report{Samples: []report.SampleReport{{Label: "empty"}}}
	output := renderReportContent(rpt)
	if !strings.Contains(output, "No axes plotted.") {
		t.Errorf("expected placeholder, got:\n%s", output)
	}
}

func TestReportModel_ViewBeforeResize(t *testing.T) {
	m := newReportModel(sampleRenderReport())
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q, want Initializing...", got)
	}
}

func TestReportModel_ResizeThenQuit(t *testing.T) {
	var model tea.Model = newReportModel(sampleRenderReport())

	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m := model.(reportModel)
	if !m.ready {
		t.Fatal("model should be ready after a window size message")
	}
	if m.viewport.Height != 28 {
		t.Errorf("viewport height = %d, want 28", m.viewport.Height)
	}
	if !strings.Contains(m.View(), "%") {
		t.Error("footer should show the scroll percentage")
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestReportModel_ToggleHelp(t *testing.T) {
	var model tea.Model = newReportModel(sampleRenderReport())
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if !model.(reportModel).help.ShowAll {
		t.Error("? should toggle the full help view")
	}
}
