package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/unbound-force/kiviat/internal/chart"
	"github.com/unbound-force/kiviat/internal/collect"
	"github.com/unbound-force/kiviat/internal/config"
	"github.com/unbound-force/kiviat/internal/metrics"
	"github.com/unbound-force/kiviat/internal/report"
	"github.com/unbound-force/kiviat/internal/scale"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

// defaultMetricsFile is read when render is given no arguments.
const defaultMetricsFile = "kiviat-metrics.json"

func main() {
	root := &cobra.Command{
		Use:   "kiviat",
		Short: "Kiviat: radar charts of code quality metrics",
		Long: `Kiviat plots aggregated code metrics on a radar chart, placing
each metric against its acceptable range and hard limit so that
healthy code lands inside the shaded band.`,
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(newRenderCmd())
	root.AddCommand(newCollectCmd())
	root.AddCommand(newAxesCmd())
	root.AddCommand(newSchemaCmd())

	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// badPathError reports inputs that could not be loaded. Its count is
// the process exit status, capped at 255.
type badPathError struct {
	count int
}

func (e *badPathError) Error() string {
	return fmt.Sprintf("%d path(s) could not be loaded; no chart written", e.count)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var bp *badPathError
	if errors.As(err, &bp) {
		return min(bp.count, 255)
	}
	return 1
}

// loadConfig reads the config file (or the defaults) and applies the
// command-line overrides. An empty name leaves the image name as
// configured.
func loadConfig(path, name string) (*config.KiviatConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if name != "" {
		cfg.Chart.ImageName = name
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--name: %w", err)
		}
	}
	return cfg, nil
}

// renderParams holds the parsed flags for the render command.
type renderParams struct {
	paths       []string
	goPackages  bool
	graphDir    string
	name        string
	configPath  string
	format      string
	maxOutside  int
	interactive bool
	moduleDir   string
	stdout      io.Writer
	stderr      io.Writer
}

// checkGraphDir verifies that the output directory exists. An empty
// dir means the working directory.
func checkGraphDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("option --graph-dir requires a path that exists to save the resulting image of the Kiviat chart: %q", dir)
	}
	return nil
}

// loadSamples reads one metrics tree per path. Paths that cannot be
// loaded are logged and counted.
func loadSamples(p renderParams) ([]metrics.Tree, int) {
	trees := make([]metrics.Tree, 0, len(p.paths))
	bad := 0
	for _, path := range p.paths {
		var (
			tree metrics.Tree
			err  error
		)
		if p.goPackages {
			tree, err = collect.Collect([]string{path}, p.moduleDir, collect.DefaultOptions())
		} else {
			tree, err = metrics.LoadFile(path)
		}
		if err != nil {
			logger.Error("bad path", "path", path, "err", err)
			bad++
			continue
		}
		trees = append(trees, tree)
	}
	return trees, bad
}

// runRender is the extracted, testable body of the render command.
func runRender(p renderParams) error {
	if err := checkGraphDir(p.graphDir); err != nil {
		return err
	}
	if p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", p.format)
	}
	cfg, err := loadConfig(p.configPath, p.name)
	if err != nil {
		return err
	}
	if len(p.paths) == 0 {
		p.paths = []string{defaultMetricsFile}
	}

	trees, bad := loadSamples(p)
	if bad > 0 {
		fmt.Fprintln(p.stderr, "Error getting the metrics data.")
		return &badPathError{count: bad}
	}

	c, err := chart.New(cfg)
	if err != nil {
		return err
	}

	ms := cfg.Metrics()
	samples := make([]metrics.Sample, 0, len(trees))
	for i, tree := range trees {
		s := metrics.Extract(tree, ms, logger.With("path", p.paths[i]))
		s.Label = p.paths[i]

		style := chart.DefaultStyle(i)
		style.Label = s.Label
		if _, err := c.Plot(s.Values, style); err != nil {
			return err
		}
		samples = append(samples, s)
	}

	out := filepath.Join(p.graphDir, cfg.Chart.ImageName)
	if err := c.Save(out); err != nil {
		return err
	}
	logger.Info("chart written", "path", out, "samples", len(samples))

	rpt := report.Build(c.Registry(), scale.BoundsOf(cfg.Chart), samples)
	rpt.Image = out

	if p.interactive {
		if err := runInteractiveReport(rpt); err != nil {
			return err
		}
	} else if err := writeRenderReport(p.stdout, p.format, rpt); err != nil {
		return err
	}

	printCISummary(p.stderr, rpt, p.maxOutside)

	return checkCIThresholds(rpt, p.maxOutside)
}

// writeRenderReport outputs the render report in the requested format.
func writeRenderReport(w io.Writer, format string, rpt *report.Report) error {
	switch format {
	case "json":
		return report.WriteJSON(w, rpt)
	default:
		return report.WriteText(w, rpt)
	}
}

// printCISummary prints a one-line CI summary to stderr when the
// threshold flag is set.
func printCISummary(w io.Writer, rpt *report.Report, maxOutside int) {
	if maxOutside < 0 {
		return
	}

	var parts []string
	for _, s := range rpt.Samples {
		status := "PASS"
		if s.Outside > maxOutside {
			status = "FAIL"
		}
		parts = append(parts, fmt.Sprintf("%s: %d/%d outside (%s)",
			s.Label, s.Outside, maxOutside, status))
	}
	fmt.Fprintln(w, strings.Join(parts, " | "))
}

// checkCIThresholds returns an error if any sample has more axes
// outside the acceptable range than allowed.
func checkCIThresholds(rpt *report.Report, maxOutside int) error {
	if maxOutside < 0 {
		return nil
	}
	for _, s := range rpt.Samples {
		if s.Outside > maxOutside {
			return fmt.Errorf("%s: %d axes outside the acceptable range exceeds maximum %d",
				s.Label, s.Outside, maxOutside)
		}
	}
	return nil
}

func newRenderCmd() *cobra.Command {
	var (
		goPackages  bool
		graphDir    string
		name        string
		configPath  string
		format      string
		maxOutside  int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "render [metrics-file...]",
		Short: "Render a Kiviat chart from aggregated metrics",
		Long: `Render one polygon per metrics file (JSON or YAML, see
'kiviat schema') onto a Kiviat chart and save it as a PNG.

With --go, each argument is a Go package pattern whose metrics are
collected in-process instead.

If any input cannot be loaded, no chart is written and the exit
status is the number of inputs that failed. Metrics missing from a
loaded input are plotted as 0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			moduleDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			return runRender(renderParams{
				paths:       args,
				goPackages:  goPackages,
				graphDir:    graphDir,
				name:        name,
				configPath:  configPath,
				format:      format,
				maxOutside:  maxOutside,
				interactive: interactive,
				moduleDir:   moduleDir,
				stdout:      os.Stdout,
				stderr:      os.Stderr,
			})
		},
	}

	cmd.Flags().BoolVar(&goPackages, "go", false,
		"treat arguments as Go package patterns and collect their metrics")
	cmd.Flags().StringVarP(&graphDir, "graph-dir", "d", "",
		"existing directory to save the chart in (default: working directory)")
	cmd.Flags().StringVar(&name, "name", "",
		"image file name (default: chart.image_name, kiviat.png)")
	cmd.Flags().StringVar(&configPath, "config", "",
		"path to config file (default: "+config.DefaultFileName+" if present)")
	cmd.Flags().StringVar(&format, "format", "text",
		"report format: text or json")
	cmd.Flags().IntVar(&maxOutside, "max-outside", -1,
		"fail if a sample has more axes than this outside the acceptable range (-1 = no limit)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing the report")

	return cmd
}

// collectParams holds the parsed flags for the collect command.
type collectParams struct {
	patterns  []string
	format    string
	out       string
	opts      collect.Options
	moduleDir string
	stdout    io.Writer
}

// runCollect is the extracted, testable body of the collect command.
func runCollect(p collectParams) (err error) {
	if p.format != "json" && p.format != "yaml" {
		return fmt.Errorf("invalid format %q: must be 'json' or 'yaml'", p.format)
	}

	logger.Info("collecting metrics", "patterns", p.patterns)
	tree, err := collect.Collect(p.patterns, p.moduleDir, p.opts)
	if err != nil {
		return err
	}
	for _, line := range collect.Summary(tree) {
		logger.Debug(line)
	}

	w := p.stdout
	if p.out != "" {
		f, err := os.Create(filepath.Clean(p.out))
		if err != nil {
			return fmt.Errorf("creating %q: %w", p.out, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing %q: %w", p.out, cerr)
			}
		}()
		w = f
	}
	return metrics.Write(w, tree, p.format)
}

func newCollectCmd() *cobra.Command {
	var (
		format       string
		out          string
		coverProfile string
		includeTests bool
	)

	cmd := &cobra.Command{
		Use:   "collect [packages...]",
		Short: "Collect aggregated code metrics for Go packages",
		Long: `Collect line, comment, complexity, nesting, statement and
method metrics for the given Go packages (default ./...) and write
them as a metrics tree that 'kiviat render' reads.

With --coverprofile, statement coverage is added under
std.code.coverage for use by custom axes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			moduleDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			opts := collect.DefaultOptions()
			opts.IncludeTests = includeTests
			opts.CoverProfile = coverProfile
			return runCollect(collectParams{
				patterns:  args,
				format:    format,
				out:       out,
				opts:      opts,
				moduleDir: moduleDir,
				stdout:    os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "json",
		"output format: json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "",
		"write to this file instead of stdout (e.g. "+defaultMetricsFile+")")
	cmd.Flags().StringVar(&coverProfile, "coverprofile", "",
		"add statement coverage from this go test -coverprofile file")
	cmd.Flags().BoolVar(&includeTests, "include-tests", false,
		"include _test.go files")

	return cmd
}

// axesParams holds the parsed flags for the axes command.
type axesParams struct {
	configPath string
	format     string
	stdout     io.Writer
}

// runAxes prints the configured axis registry.
func runAxes(p axesParams) error {
	if p.format != "text" && p.format != "yaml" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'yaml'", p.format)
	}
	cfg, err := loadConfig(p.configPath, "")
	if err != nil {
		return err
	}
	if p.format == "yaml" {
		return writeConfigYAML(p.stdout, cfg)
	}
	_, err = fmt.Fprintln(p.stdout, axesTable(cfg.Registry()))
	return err
}

func newAxesCmd() *cobra.Command {
	var configPath, format string

	cmd := &cobra.Command{
		Use:   "axes",
		Short: "Print the configured chart axes",
		Long: `Print the axes a chart is built from, in plotting order, with
their acceptable ranges, limits and metric keys. With --format=yaml
the full configuration is printed, suitable as a starting
` + config.DefaultFileName + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAxes(axesParams{
				configPath: configPath,
				format:     format,
				stdout:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "",
		"path to config file (default: "+config.DefaultFileName+" if present)")
	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text or yaml")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	var reportSchema bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for Kiviat metrics input",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of the metrics files read by kiviat render and written
by kiviat collect. With --report, print the schema of
kiviat render --format=json output instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := report.Schema
			if reportSchema {
				s = report.ReportSchema
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}

	cmd.Flags().BoolVar(&reportSchema, "report", false,
		"print the render report schema")

	return cmd
}
