package dialect

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/twinfer/setupsheet-plugin/internal/exprtransform"
	"github.com/twinfer/setupsheet-plugin/pkg/setupsheet"
)

var (
	// ErrDuplicateDialect reports a second registration for a vehicle id.
	ErrDuplicateDialect = errors.New("dialect already registered")

	// ErrInvalidDialect reports a definition that fails validation:
	// unknown canonical paths, a transform for an unmapped path, or an
	// uncompilable transform.
	ErrInvalidDialect = errors.New("invalid dialect definition")
)

// mappingEntry is one compiled (section, canonical path, raw key) triple.
type mappingEntry struct {
	Section string
	Path    string
	RawKey  string
}

// Dialect is a registered, compiled definition. It is immutable after
// registration and safe to share across concurrent decode/encode calls.
type Dialect struct {
	vehicle     string
	displayName string
	entries     []mappingEntry
	transforms  map[string]Transform
	sections    map[string]struct{}
}

// Vehicle returns the vendor/model identifier.
func (d *Dialect) Vehicle() string { return d.vehicle }

// DisplayName returns the human-readable vehicle name.
func (d *Dialect) DisplayName() string { return d.displayName }

// ConsumesSection reports whether the dialect maps anything out of the named
// raw section.
func (d *Dialect) ConsumesSection(name string) bool {
	_, ok := d.sections[name]
	return ok
}

// Registry holds the registered dialects. Registration happens at codec
// construction; lookups afterwards are read-only and concurrency-safe.
type Registry struct {
	mu       sync.RWMutex
	dialects map[string]*Dialect
	pool     *exprtransform.Pool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		dialects: make(map[string]*Dialect),
		pool:     exprtransform.NewPool(),
	}
}

// Register validates and compiles a definition and stores it under its
// vehicle id. It fails with ErrDuplicateDialect when the id is taken and
// with ErrInvalidDialect when the definition does not hold together.
func (r *Registry) Register(def *Definition) error {
	d, err := r.compile(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dialects[d.vehicle]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateDialect, d.vehicle)
	}
	r.dialects[d.vehicle] = d
	return nil
}

// Lookup returns the dialect registered for a vehicle id.
func (r *Registry) Lookup(vehicle string) (*Dialect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dialects[vehicle]
	return d, ok
}

// Vehicles returns the registered vehicle ids, sorted.
func (r *Registry) Vehicles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.dialects))
	for v := range r.dialects {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// compile validates a definition against the sheet schema and flattens it
// into a deterministic entry order, so repeated runs over the same input
// produce byte-identical output.
func (r *Registry) compile(def *Definition) (*Dialect, error) {
	if def.Vehicle == "" {
		return nil, fmt.Errorf("%w: missing vehicle id", ErrInvalidDialect)
	}

	d := &Dialect{
		vehicle:     def.Vehicle,
		displayName: def.DisplayName,
		transforms:  make(map[string]Transform),
		sections:    make(map[string]struct{}),
	}

	mapped := make(map[string]struct{})
	for section, fields := range def.Sections {
		d.sections[section] = struct{}{}
		for path, rawKey := range fields {
			if !setupsheet.ValidPath(path) {
				return nil, fmt.Errorf("%w: %q maps unknown field path %q", ErrInvalidDialect, def.Vehicle, path)
			}
			if rawKey == "" {
				return nil, fmt.Errorf("%w: %q maps %q to an empty raw key", ErrInvalidDialect, def.Vehicle, path)
			}
			d.entries = append(d.entries, mappingEntry{Section: section, Path: path, RawKey: rawKey})
			mapped[path] = struct{}{}
		}
	}
	sort.Slice(d.entries, func(i, j int) bool {
		if d.entries[i].Section != d.entries[j].Section {
			return d.entries[i].Section < d.entries[j].Section
		}
		return d.entries[i].Path < d.entries[j].Path
	})

	for path, spec := range def.Transforms {
		if _, ok := mapped[path]; !ok {
			return nil, fmt.Errorf("%w: %q declares a transform for unmapped path %q", ErrInvalidDialect, def.Vehicle, path)
		}
		t, err := compileTransform(spec, r.pool)
		if err != nil {
			return nil, fmt.Errorf("%w: %q transform for %q: %w", ErrInvalidDialect, def.Vehicle, path, err)
		}
		d.transforms[path] = t
	}

	return d, nil
}
