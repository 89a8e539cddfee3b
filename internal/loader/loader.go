// Package loader wraps go/packages to resolve Go package patterns to
// the source files metrics are collected from.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode is the minimum set of flags needed to list package files.
const LoadMode = packages.NeedName |
	packages.NeedFiles

// Result holds the packages matched by a set of patterns.
type Result struct {
	// Pkgs are the loaded packages, in go/packages order.
	Pkgs []*packages.Package

	// Files are the absolute paths of all Go files, sorted and
	// deduplicated. _test.go files are listed only when tests were
	// requested.
	Files []string
}

// Load resolves patterns (e.g. "./...") relative to dir. With tests,
// the test variants of each package are loaded too. It returns an
// error if nothing matches or any package fails to load.
func Load(dir string, tests bool, patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Mode:  LoadMode,
		Dir:   dir,
		Tests: tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages %q: %w", patterns, err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for patterns %q", patterns)
	}

	// Check for package-level errors (missing packages, bad patterns).
	var errs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("packages %q have errors:\n  %s",
			patterns, strings.Join(errs, "\n  "))
	}

	seen := make(map[string]bool)
	var files []string
	for _, pkg := range pkgs {
		// The generated test main lives in the build cache.
		if strings.HasSuffix(pkg.ID, ".test") {
			continue
		}
		for _, f := range pkg.GoFiles {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files found for patterns %q", patterns)
	}
	sort.Strings(files)

	return &Result{Pkgs: pkgs, Files: files}, nil
}
