// Package collect computes aggregated code metrics for Go packages and
// stores them in a metrics.Tree using the std.code.* namespaces the
// default Kiviat axes read.
//
// Cyclomatic complexity comes from gocyclo. The tree counts decision
// points from zero, so each function's gocyclo complexity is stored
// minus one.
package collect

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/fzipp/gocyclo"
	"github.com/unbound-force/kiviat/internal/loader"
	"github.com/unbound-force/kiviat/internal/metrics"
)

// Metric keys written by Collect.
var (
	KeyLinesTotal      = metrics.MustParseKey("std.code.lines/total/total")
	KeyLinesComments   = metrics.MustParseKey("std.code.lines/comments/total")
	KeyCyclomaticAvg   = metrics.MustParseKey("std.code.complexity/cyclomatic/avg")
	KeyCyclomaticMax   = metrics.MustParseKey("std.code.complexity/cyclomatic/max")
	KeyMaxIndentAvg    = metrics.MustParseKey("std.code.complexity/maxindent/avg")
	KeyMaxIndentMax    = metrics.MustParseKey("std.code.complexity/maxindent/max")
	KeyStatementsAvg   = metrics.MustParseKey("std.code.statements/function/avg")
	KeyMethodsAvg      = metrics.MustParseKey("std.code.member/methods/avg")
	KeyFunctionsTotal  = metrics.MustParseKey("std.code.complexity/cyclomatic/count")
	KeyMethodTypeCount = metrics.MustParseKey("std.code.member/methods/count")
)

// Options configures collection.
type Options struct {
	// IncludeTests adds _test.go files.
	IncludeTests bool

	// IgnoreGenerated skips files with a "// Code generated ... DO NOT
	// EDIT." header.
	IgnoreGenerated bool

	// CoverProfile, when set, is a "go test -coverprofile" file whose
	// statement coverage is added under std.code.coverage.
	CoverProfile string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{IgnoreGenerated: true}
}

// Collect resolves patterns relative to moduleDir and computes the
// metrics tree over all matched files.
func Collect(patterns []string, moduleDir string, opts Options) (metrics.Tree, error) {
	res, err := loader.Load(moduleDir, opts.IncludeTests, patterns...)
	if err != nil {
		return nil, err
	}
	return CollectFiles(res.Files, opts)
}

// funcStat holds the per-function measurements.
type funcStat struct {
	complexity int
	depth      int
	statements int
}

// CollectFiles computes the metrics tree over the given Go files.
func CollectFiles(files []string, opts Options) (metrics.Tree, error) {
	fset := token.NewFileSet()

	var (
		totalLines, commentLines int
		funcs                    []funcStat
		cyclo                    gocyclo.Stats
	)
	methodsByType := make(map[string]int)

	for _, path := range files {
		if !opts.IncludeTests && strings.HasSuffix(path, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if opts.IgnoreGenerated && ast.IsGenerated(f) {
			continue
		}

		tf := fset.File(f.Pos())
		totalLines += tf.LineCount()
		commentLines += countCommentLines(fset, f)

		start := len(cyclo)
		cyclo = gocyclo.AnalyzeASTFile(f, fset, cyclo)
		fileStats := cyclo[start:]

		byPos := make(map[token.Position]int, len(fileStats))
		for _, s := range fileStats {
			byPos[s.Pos] = s.Complexity
		}

		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Body == nil {
				continue
			}
			funcs = append(funcs, funcStat{
				complexity: byPos[fset.Position(fn.Pos())],
				depth:      maxIndent(fn.Body),
				statements: countStatements(fn.Body),
			})
			if recv := receiverType(fn); recv != "" {
				methodsByType[f.Name.Name+"."+recv]++
			}
		}
	}

	tree := metrics.Tree{}
	tree.Set(KeyLinesTotal, totalLines)
	tree.Set(KeyLinesComments, commentLines)

	if len(funcs) > 0 {
		var sumCyclo, sumDepth, sumStmts, maxCyclo, maxDepth int
		for _, s := range funcs {
			c := s.complexity - 1
			if c < 0 {
				c = 0
			}
			sumCyclo += c
			sumDepth += s.depth
			sumStmts += s.statements
			maxCyclo = max(maxCyclo, c)
			maxDepth = max(maxDepth, s.depth)
		}
		n := float64(len(funcs))
		tree.Set(KeyFunctionsTotal, len(funcs))
		tree.Set(KeyCyclomaticAvg, float64(sumCyclo)/n)
		tree.Set(KeyCyclomaticMax, maxCyclo)
		tree.Set(KeyMaxIndentAvg, float64(sumDepth)/n)
		tree.Set(KeyMaxIndentMax, maxDepth)
		tree.Set(KeyStatementsAvg, float64(sumStmts)/n)
	}

	// Types without methods are not classes; when no type has a method
	// the namespace stays absent and the axis reads as missing.
	if len(methodsByType) > 0 {
		total := 0
		for _, c := range methodsByType {
			total += c
		}
		tree.Set(KeyMethodTypeCount, len(methodsByType))
		tree.Set(KeyMethodsAvg, float64(total)/float64(len(methodsByType)))
	}

	if opts.CoverProfile != "" {
		if err := addCoverage(tree, opts.CoverProfile); err != nil {
			return nil, err
		}
	}

	return tree, nil
}

// countCommentLines returns the number of distinct lines touched by a
// comment.
func countCommentLines(fset *token.FileSet, f *ast.File) int {
	lines := make(map[int]bool)
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			from := fset.Position(c.Pos()).Line
			to := fset.Position(c.End()).Line
			for l := from; l <= to; l++ {
				lines[l] = true
			}
		}
	}
	return len(lines)
}

// maxIndent returns the deepest block nesting in body; a body with no
// nested blocks has depth 1.
func maxIndent(body *ast.BlockStmt) int {
	deepest := 1
	var walk func(n ast.Node, depth int)
	walk = func(n ast.Node, depth int) {
		ast.Inspect(n, func(c ast.Node) bool {
			if c == n {
				return true
			}
			if b, ok := c.(*ast.BlockStmt); ok {
				deepest = max(deepest, depth+1)
				walk(b, depth+1)
				return false
			}
			return true
		})
	}
	walk(body, 1)
	return deepest
}

// countStatements counts the statements in body, excluding blocks
// and empty statements.
func countStatements(body *ast.BlockStmt) int {
	n := 0
	ast.Inspect(body, func(node ast.Node) bool {
		switch node.(type) {
		case *ast.BlockStmt, *ast.EmptyStmt:
		case ast.Stmt:
			n++
		}
		return true
	})
	return n
}

// receiverType returns the base type name of a method receiver, or ""
// for plain functions.
func receiverType(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	t := fn.Recv.List[0].Type
	for {
		switch tt := t.(type) {
		case *ast.StarExpr:
			t = tt.X
		case *ast.IndexExpr:
			t = tt.X
		case *ast.IndexListExpr:
			t = tt.X
		case *ast.ParenExpr:
			t = tt.X
		case *ast.Ident:
			return tt.Name
		default:
			return ""
		}
	}
}

// Summary lists the collected values in key order, for logging.
func Summary(tree metrics.Tree) []string {
	var out []string
	for _, k := range tree.Keys() {
		v, err := tree.Lookup(k)
		if err != nil {
			continue
		}
		out = append(out, fmt.Sprintf("%s=%g", k, v))
	}
	return out
}
