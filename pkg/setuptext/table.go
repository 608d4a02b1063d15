// Package setuptext parses and serializes the flat, section-delimited
// key-value text format that vehicle setup files are exchanged in.
//
// The format is INI-like: a handful of reserved top-level keys form a header
// block, and everything else lives inside [SECTION] groups as KEY = VALUE
// pairs. Scalar values are classified as bool, integer, float or plain text.
// Comments are dropped on parse and are not reproduced on serialization.
package setuptext

import (
	"math"
	"strconv"
	"strings"
)

// Reserved header keys. They are extracted into the Table header regardless
// of where they appear in the file and never belong to a section.
const (
	KeyVersion   = "VERSION"
	KeyVehicle   = "VEHICLE"
	KeyTrack     = "TRACK"
	KeySetupName = "SETUP_NAME"
	KeyTimestamp = "TIMESTAMP"
)

// FormatVersion is the version emitted for newly serialized tables.
const FormatVersion = "1"

// Kind discriminates the scalar types a raw value can carry.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
)

// Value is one raw scalar as found in a setup file.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// String returns the wire form of v: integers without a decimal point,
// floats with one, booleans as true/false, text verbatim.
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.Float, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") && !math.IsInf(v.Float, 0) && !math.IsNaN(v.Float) {
			s += ".0"
		}
		return s
	default:
		return v.Str
	}
}

// Float64 coerces v to a float64. The second return is false when the value
// has no numeric reading (booleans and non-numeric text).
func (v Value) Float64() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Interface returns the scalar as a plain Go value, for callers that hand
// raw sections through untouched.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	default:
		return v.Str
	}
}

// BoolValue wraps a bool scalar.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue wraps an integer scalar.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// FloatValue wraps a float scalar.
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// StringValue wraps a text scalar.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NumberValue wraps f in its natural textual form: a whole number becomes an
// integer scalar, everything else a float scalar.
func NumberValue(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return IntValue(int64(f))
	}
	return FloatValue(f)
}

// classifyScalar turns raw text into a Value, trying bool, then integer,
// then float, then falling back to literal text.
func classifyScalar(raw string) Value {
	switch raw {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return FloatValue(f)
	}
	return StringValue(raw)
}

// Header holds the reserved top-level keys of a setup file.
type Header struct {
	Version   string
	Vehicle   string
	Track     string
	SetupName string
	Timestamp string
}

// Section is one [NAME] group. Key order is preserved from the input.
type Section struct {
	Name   string
	keys   []string
	values map[string]Value
}

// NewSection creates an empty section.
func NewSection(name string) *Section {
	return &Section{Name: name, values: make(map[string]Value)}
}

// Get returns the value stored under key.
func (s *Section) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key, keeping first-insertion order for new keys.
func (s *Section) Set(key string, v Value) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Keys returns the section's keys in insertion order.
func (s *Section) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys in the section.
func (s *Section) Len() int { return len(s.keys) }

// Table is the parsed form of one setup file: a header block plus ordered
// sections of ordered key-value pairs. Section names are case-sensitive and
// unique within a table.
type Table struct {
	Header   Header
	sections []*Section
	byName   map[string]*Section
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Section)}
}

// Section returns the named section, or nil if the table has none.
func (t *Table) Section(name string) *Section {
	return t.byName[name]
}

// EnsureSection returns the named section, appending an empty one first if
// the table does not have it yet.
func (t *Table) EnsureSection(name string) *Section {
	if s, ok := t.byName[name]; ok {
		return s
	}
	s := NewSection(name)
	t.sections = append(t.sections, s)
	t.byName[name] = s
	return s
}

// Sections returns the table's sections in file order.
func (t *Table) Sections() []*Section {
	out := make([]*Section, len(t.sections))
	copy(out, t.sections)
	return out
}

// SectionNames returns the section names in file order.
func (t *Table) SectionNames() []string {
	out := make([]string, 0, len(t.sections))
	for _, s := range t.sections {
		out = append(out, s.Name)
	}
	return out
}
