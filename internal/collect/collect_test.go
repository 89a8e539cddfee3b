package collect

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/unbound-force/kiviat/internal/metrics"
)

const storeSrc = `package store

// Store keeps items.
type Store struct {
	items []int
}

// Add appends v.
func (s *Store) Add(v int) {
	s.items = append(s.items, v)
}

func (s *Store) Sum() int {
	total := 0
	for _, v := range s.items {
		if v > 0 {
			total += v
		}
	}
	return total
}

func Flat(a, b int) int {
	return a + b
}
`

const generatedSrc = `// Code generated by hand. DO NOT EDIT.

package store

func Generated(x int) int {
	if x > 0 {
		if x > 1 {
			if x > 2 {
				return 3
			}
		}
	}
	return 0
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func lookup(t *testing.T, tree metrics.Tree, k metrics.Key) float64 {
	t.Helper()
	v, err := tree.Lookup(k)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", k, err)
	}
	return v
}

func TestCollectFiles_Store(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "store.go", storeSrc),
		writeFile(t, dir, "gen.go", generatedSrc),
		writeFile(t, dir, "store_test.go", "package store\n\nfunc helper() {}\n"),
	}

	tree, err := CollectFiles(files, DefaultOptions())
	if err != nil {
		t.Fatalf("CollectFiles error: %v", err)
	}

	if got := lookup(t, tree, KeyLinesTotal); got != 25 {
		t.Errorf("total lines = %v, want 25", got)
	}
	if got := lookup(t, tree, KeyLinesComments); got != 2 {
		t.Errorf("comment lines = %v, want 2", got)
	}
	if got := lookup(t, tree, KeyFunctionsTotal); got != 3 {
		t.Errorf("functions = %v, want 3", got)
	}
	// gocyclo: Add=1, Sum=3, Flat=1; stored minus one: 0, 2, 0.
	if got := lookup(t, tree, KeyCyclomaticMax); got != 2 {
		t.Errorf("cyclomatic max = %v, want 2", got)
	}
	if got := lookup(t, tree, KeyCyclomaticAvg); got != 0.67 {
		t.Errorf("cyclomatic avg = %v, want 0.67", got)
	}
	// Depths: Add=1, Sum=3, Flat=1.
	if got := lookup(t, tree, KeyMaxIndentMax); got != 3 {
		t.Errorf("maxindent max = %v, want 3", got)
	}
	if got := lookup(t, tree, KeyMaxIndentAvg); got != 1.67 {
		t.Errorf("maxindent avg = %v, want 1.67", got)
	}
	// Statements: Add=1, Sum=5, Flat=1.
	if got := lookup(t, tree, KeyStatementsAvg); got != 2.33 {
		t.Errorf("statements avg = %v, want 2.33", got)
	}
	if got := lookup(t, tree, KeyMethodsAvg); got != 2 {
		t.Errorf("methods avg = %v, want 2", got)
	}
}

func TestCollectFiles_IncludeGenerated(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "gen.go", generatedSrc)}

	tree, err := CollectFiles(files, Options{IgnoreGenerated: false})
	if err != nil {
		t.Fatalf("CollectFiles error: %v", err)
	}
	if got := lookup(t, tree, KeyMaxIndentMax); got != 4 {
		t.Errorf("maxindent max = %v, want 4", got)
	}
}

func TestCollectFiles_NoMethodsLeavesMemberMissing(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "flat.go", "package flat\n\nfunc F() {}\n")}

	tree, err := CollectFiles(files, DefaultOptions())
	if err != nil {
		t.Fatalf("CollectFiles error: %v", err)
	}
	if _, err := tree.Lookup(KeyMethodsAvg); err == nil {
		t.Error("expected methods avg to be missing when no type has methods")
	}
}

func TestCollectFiles_ParseError(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "bad.go", "package bad\n\nfunc {\n")}
	if _, err := CollectFiles(files, DefaultOptions()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestReceiverType(t *testing.T) {
	src := `package p
type G[T any] struct{}
func (g *G[T]) M() {}
func (v V) N() {}
func F() {}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "p.go", src, 0)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, d := range f.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			got = append(got, receiverType(fn))
		}
	}
	want := []string{"G", "V", ""}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("receiverType #%d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollectFiles_CoverProfile(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "store.go", storeSrc)}
	profile := writeFile(t, dir, "cover.out", `mode: set
example.com/store/store.go:22.28,24.2 1 1
example.com/store/store.go:26.24,28.29 2 1
example.com/store/store.go:28.29,29.12 1 0
example.com/store/store.go:36.26,38.2 1 0
`)

	opts := DefaultOptions()
	opts.CoverProfile = profile
	tree, err := CollectFiles(files, opts)
	if err != nil {
		t.Fatalf("CollectFiles error: %v", err)
	}
	if got := lookup(t, tree, KeyCoverageTotal); got != 5 {
		t.Errorf("coverage total = %v, want 5", got)
	}
	if got := lookup(t, tree, KeyCoverageCovered); got != 3 {
		t.Errorf("coverage covered = %v, want 3", got)
	}
	if got := lookup(t, tree, KeyCoveragePercent); got != 60 {
		t.Errorf("coverage percent = %v, want 60", got)
	}
}

func TestCollectFiles_BadCoverProfile(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "store.go", storeSrc)}

	opts := DefaultOptions()
	opts.CoverProfile = filepath.Join(dir, "missing.out")
	if _, err := CollectFiles(files, opts); err == nil {
		t.Fatal("expected error for missing cover profile")
	}
}

func TestCollectFiles_NoCoverProfileNoCoverageKeys(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "store.go", storeSrc)}

	tree, err := CollectFiles(files, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tree.Lookup(KeyCoverageTotal); err == nil {
		t.Error("coverage should be absent without a cover profile")
	}
}

func TestCollect_IncludeTests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/a\n\ngo 1.21\n")
	writeFile(t, dir, "a.go", "package a\n\nfunc A() int { return 1 }\n")
	writeFile(t, dir, "a_test.go", `package a

import "testing"

func TestA(t *testing.T) {
	if A() != 1 {
		t.Fatal("A")
	}
}

func TestB(t *testing.T) {}

func helper() {}
`)

	opts := DefaultOptions()
	tree, err := Collect([]string{"./..."}, dir, opts)
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if got := lookup(t, tree, KeyFunctionsTotal); got != 1 {
		t.Errorf("functions without tests = %v, want 1", got)
	}

	opts.IncludeTests = true
	tree, err = Collect([]string{"./..."}, dir, opts)
	if err != nil {
		t.Fatalf("Collect with tests error: %v", err)
	}
	if got := lookup(t, tree, KeyFunctionsTotal); got != 4 {
		t.Errorf("functions with tests = %v, want 4", got)
	}
}
