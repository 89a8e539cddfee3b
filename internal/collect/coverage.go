package collect

import (
	"fmt"

	"github.com/unbound-force/kiviat/internal/metrics"
	"golang.org/x/tools/cover"
)

// Coverage keys, written when Options.CoverProfile is set.
var (
	KeyCoverageCovered = metrics.MustParseKey("std.code.coverage/statements/covered")
	KeyCoverageTotal   = metrics.MustParseKey("std.code.coverage/statements/total")
	KeyCoveragePercent = metrics.MustParseKey("std.code.coverage/statements/percent")
)

// addCoverage aggregates statement coverage from a Go coverage profile
// into tree. ParseProfiles merges blocks repeated across runs, so each
// block is counted once.
func addCoverage(tree metrics.Tree, profilePath string) error {
	profiles, err := cover.ParseProfiles(profilePath)
	if err != nil {
		return fmt.Errorf("reading cover profile %q: %w", profilePath, err)
	}

	var covered, total int
	for _, p := range profiles {
		for _, b := range p.Blocks {
			total += b.NumStmt
			if b.Count > 0 {
				covered += b.NumStmt
			}
		}
	}

	tree.Set(KeyCoverageCovered, covered)
	tree.Set(KeyCoverageTotal, total)
	if total > 0 {
		tree.Set(KeyCoveragePercent, 100*float64(covered)/float64(total))
	}
	return nil
}
