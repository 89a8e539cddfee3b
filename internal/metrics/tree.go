// Package metrics provides typed access to aggregated code metrics
// stored as a namespace → field → attribute tree, and extracts the
// per-axis raw values plotted on a Kiviat chart.
package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DigitCount is the number of decimal digits floating point metric
// values are rounded to on lookup, so results match across platforms
// with different float precision.
const DigitCount = 2

// ErrMissing is returned (wrapped) when a requested metric is absent
// from a Source or is not numeric.
var ErrMissing = errors.New("metric not found")

// Key addresses a single metric value in a Tree. Its textual form is
// "namespace/field/attribute", e.g. "std.code.complexity/cyclomatic/avg".
type Key struct {
	Namespace string
	Field     string
	Attribute string
}

// ParseKey parses the "namespace/field/attribute" form of a Key.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("invalid metric key %q: want namespace/field/attribute", s)
	}
	for _, p := range parts {
		if p == "" {
			return Key{}, fmt.Errorf("invalid metric key %q: empty segment", s)
		}
	}
	return Key{Namespace: parts[0], Field: parts[1], Attribute: parts[2]}, nil
}

// MustParseKey is like ParseKey but panics on error. It is intended
// for package-level defaults.
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Key) String() string {
	if k.IsZero() {
		return ""
	}
	return k.Namespace + "/" + k.Field + "/" + k.Attribute
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k == Key{}
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty text
// yields the zero Key.
func (k *Key) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*k = Key{}
		return nil
	}
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (k Key) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Key) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return k.UnmarshalText([]byte(s))
}

// MissingError describes which level of the tree a lookup failed at.
type MissingError struct {
	Key Key
	// Level is "namespace", "field", "attribute" or "value" (present
	// but not numeric).
	Level string
}

func (e *MissingError) Error() string {
	switch e.Level {
	case "namespace":
		return fmt.Sprintf("could not find namespace in data - Namespace: %s", e.Key.Namespace)
	case "field":
		return fmt.Sprintf("could not find field in data - Namespace: %s Field: %s",
			e.Key.Namespace, e.Key.Field)
	case "value":
		return fmt.Sprintf("metric %s is not numeric", e.Key)
	default:
		return fmt.Sprintf("could not find attribute in data - Namespace: %s Field: %s Attribute: %s",
			e.Key.Namespace, e.Key.Field, e.Key.Attribute)
	}
}

func (e *MissingError) Unwrap() error { return ErrMissing }

// Source is anything that can answer metric lookups. A lookup either
// yields a number or an error wrapping ErrMissing.
type Source interface {
	Lookup(k Key) (float64, error)
}

// Tree is the aggregated metrics document:
// namespace → field → attribute → value.
type Tree map[string]map[string]map[string]interface{}

// Lookup implements Source. Floating point values are rounded to
// DigitCount decimal digits; integer values are returned unchanged.
func (t Tree) Lookup(k Key) (float64, error) {
	fields, ok := t[k.Namespace]
	if !ok {
		return 0, &MissingError{Key: k, Level: "namespace"}
	}
	attrs, ok := fields[k.Field]
	if !ok {
		return 0, &MissingError{Key: k, Level: "field"}
	}
	raw, ok := attrs[k.Attribute]
	if !ok {
		return 0, &MissingError{Key: k, Level: "attribute"}
	}
	v, isFloat, ok := toFloat(raw)
	if !ok {
		return 0, &MissingError{Key: k, Level: "value"}
	}
	if isFloat {
		v = roundTo(v, DigitCount)
	}
	return v, nil
}

// Set stores v under k, creating intermediate levels as needed.
func (t Tree) Set(k Key, v interface{}) {
	fields, ok := t[k.Namespace]
	if !ok {
		fields = make(map[string]map[string]interface{})
		t[k.Namespace] = fields
	}
	attrs, ok := fields[k.Field]
	if !ok {
		attrs = make(map[string]interface{})
		fields[k.Field] = attrs
	}
	attrs[k.Attribute] = v
}

// Keys returns every key in the tree in lexical order.
func (t Tree) Keys() []Key {
	var keys []Key
	for ns, fields := range t {
		for f, attrs := range fields {
			for a := range attrs {
				keys = append(keys, Key{Namespace: ns, Field: f, Attribute: a})
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

func toFloat(raw interface{}) (v float64, isFloat, ok bool) {
	switch n := raw.(type) {
	case float64:
		// JSON numbers always decode as float64; whole values are
		// treated as integers.
		return n, n != math.Trunc(n), true
	case float32:
		return float64(n), true, true
	case int:
		return float64(n), false, true
	case int64:
		return float64(n), false, true
	case int32:
		return float64(n), false, true
	case uint:
		return float64(n), false, true
	case uint64:
		return float64(n), false, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false, false
		}
		return f, strings.ContainsAny(n.String(), ".eE"), true
	default:
		return 0, false, false
	}
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// LoadFile reads a metrics tree from a JSON or YAML file. The format
// is chosen by extension: .yaml and .yml are YAML, anything else JSON.
func LoadFile(path string) (Tree, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading metrics %q: %w", path, err)
	}

	tree := Tree{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tree)
	default:
		err = json.Unmarshal(data, &tree)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing metrics %q: %w", path, err)
	}
	return tree, nil
}

// Write encodes the tree to w as "json" or "yaml".
func Write(w io.Writer, t Tree, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	default:
		return fmt.Errorf("invalid format %q: must be 'json' or 'yaml'", format)
	}
}
