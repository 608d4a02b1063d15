// Package dialect implements the vendor dialect layer of the setup codec:
// immutable dialect definitions, the registry they are looked up in, the
// field-mapping engine that projects raw tables onto canonical setup sheets
// and back, and the generic fallback mapper used for unknown vehicles.
//
// A dialect is plain data, not behavior: a table from section name to
// (canonical field path -> raw key), plus optional per-path numeric
// transforms that reconcile unit and sign conventions. Definitions are
// validated and compiled once at registration and are read-only afterwards,
// so decode and encode calls can share them without synchronization.
package dialect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition describes one vendor dialect. The zero transform spec for a
// path means the raw value is used as-is (after numeric coercion).
type Definition struct {
	// Vehicle is the vendor/model identifier the dialect is registered
	// under and matched against the VEHICLE header key.
	Vehicle string `yaml:"vehicle"`

	// DisplayName is a human-readable vehicle name.
	DisplayName string `yaml:"display_name,omitempty"`

	// Sections maps a raw section name to the canonical field paths it
	// provides, each pointing at the raw key that carries the value.
	Sections map[string]map[string]string `yaml:"sections"`

	// Transforms maps a canonical field path to the paired numeric
	// transform applied on decode and encode. Every transformed path must
	// also appear in Sections; registration rejects the definition
	// otherwise.
	Transforms map[string]TransformSpec `yaml:"transforms,omitempty"`
}

// Transform spec kinds.
const (
	TransformScale  = "scale"
	TransformNegate = "negate"
	TransformExpr   = "expr"
)

// TransformSpec declares one paired numeric transform as data.
type TransformSpec struct {
	// Kind selects the transform class: scale, negate or expr.
	Kind string `yaml:"kind"`

	// Factor is the decode multiplier for scale transforms; encode divides
	// by it.
	Factor float64 `yaml:"factor,omitempty"`

	// Decode and Encode are expression sources for expr transforms. Each
	// sees the input value as x and must evaluate to a float.
	Decode string `yaml:"decode,omitempty"`
	Encode string `yaml:"encode,omitempty"`
}

// FromYAML parses a dialect definition from YAML. The definition is not
// validated here; Registry.Register does that.
func FromYAML(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing dialect definition: %w", err)
	}
	return &def, nil
}

// FromYAMLFile reads and parses a dialect definition file.
func FromYAMLFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dialect definition: %w", err)
	}
	def, err := FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}
