// Package registry holds the benchmark variants known to the program and
// selects one by matching a requested configuration against each variant's
// descriptor.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/weiihann/ubench/config"
	"github.com/weiihann/ubench/execution"
)

var (
	// ErrUnknownType is wrapped by ConfigError when no variant is
	// registered under the requested type.
	ErrUnknownType = errors.New("unknown benchmark type")
	// ErrNoMatch is wrapped by ConfigError when no descriptor of the
	// requested type matches the configuration.
	ErrNoMatch = errors.New("no benchmark matches the given configuration")
)

// Variant is one implementation of a benchmark type.
type Variant struct {
	// Type is the benchmark type name, e.g. "queue".
	Type string
	// Name identifies the variant within its type, e.g. "locked".
	Name string
	// Descriptor is matched against the benchmark.ds configuration subtree.
	Descriptor config.Tree
	// Build returns a fresh benchmark instance for one round.
	Build func() execution.Benchmark
}

// String returns "type/name".
func (v Variant) String() string { return v.Type + "/" + v.Name }

// Registry maps benchmark type names to their variants in registration
// order. It is immutable once built.
type Registry struct {
	types    []string
	variants map[string][]Variant
}

// New builds a registry from variants. Registration order is the argument
// order and decides which variant wins when several match.
func New(variants ...Variant) (*Registry, error) {
	r := &Registry{variants: make(map[string][]Variant)}

	for _, v := range variants {
		if v.Type == "" {
			return nil, fmt.Errorf("registry: variant %q has no type", v.Name)
		}

		if v.Build == nil {
			return nil, fmt.Errorf("registry: variant %s has no builder", v)
		}

		if _, seen := r.variants[v.Type]; !seen {
			r.types = append(r.types, v.Type)
		}

		r.variants[v.Type] = append(r.variants[v.Type], v)
	}

	return r, nil
}

// Types returns the registered type names in registration order.
func (r *Registry) Types() []string {
	return append([]string(nil), r.types...)
}

// Variants returns the variants of typ in registration order.
func (r *Registry) Variants(typ string) []Variant {
	return append([]Variant(nil), r.variants[typ]...)
}

// Matching returns every variant of typ whose descriptor matches cfg, in
// registration order.
func (r *Registry) Matching(typ string, cfg config.Tree) []Variant {
	var out []Variant

	for _, v := range r.variants[typ] {
		if Matches(cfg, v.Descriptor) {
			out = append(out, v)
		}
	}

	return out
}

// Select returns the first registered variant of typ whose descriptor
// matches cfg. It returns a *ConfigError if typ is unknown or nothing
// matches.
func (r *Registry) Select(typ string, cfg config.Tree) (Variant, error) {
	variants, ok := r.variants[typ]
	if !ok {
		return Variant{}, &ConfigError{Type: typ, Err: ErrUnknownType, Known: r.Types()}
	}

	for _, v := range variants {
		if Matches(cfg, v.Descriptor) {
			return v, nil
		}
	}

	return Variant{}, &ConfigError{
		Type:      typ,
		Err:       ErrNoMatch,
		Available: r.Variants(typ),
	}
}

// ConfigError reports a configuration that cannot be resolved to a variant.
type ConfigError struct {
	Type string
	Err  error
	// Available lists the variants of Type when no descriptor matched.
	Available []Variant
	// Known lists the registered types when Type is unknown.
	Known []string
}

func (e *ConfigError) Error() string {
	if errors.Is(e.Err, ErrUnknownType) {
		return fmt.Sprintf("%v %q (known: %s)", e.Err, e.Type, strings.Join(e.Known, ", "))
	}

	names := make([]string, len(e.Available))
	for i, v := range e.Available {
		names[i] = v.Name
	}

	return fmt.Sprintf("%s: %v (available: %s)", e.Type, e.Err, strings.Join(names, ", "))
}

func (e *ConfigError) Unwrap() error { return e.Err }
