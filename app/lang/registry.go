package lang

import (
	"sort"
	"strings"
)

// UnitKind distinguishes root units from derived ones.
type UnitKind int

const (
	RootUnit UnitKind = iota
	DerivedUnit
)

func (k UnitKind) String() string {
	if k == RootUnit {
		return "root"
	}
	return "derived"
}

// UnitEntry is a registered unit. Value holds its scale in root-unit terms
// and its dimension vector.
type UnitEntry struct {
	Kind      UnitKind
	Names     Names
	Value     Quantity
	Dimension string // base dimension claimed by a root unit
}

// PrefixEntry is a registered prefix: a pure multiplier.
type PrefixEntry struct {
	Names Names
	Scale float64
}

// Registry holds the units, prefixes and base dimensions of one session.
// Units and prefixes live in separate namespaces. A Registry is not safe for
// concurrent mutation, but any number of goroutines may evaluate against
// one that is no longer being modified.
type Registry struct {
	units      map[string]*UnitEntry
	prefixes   map[string]*PrefixEntry
	dimensions map[string]*UnitEntry // base dimension -> root unit

	unitOrder   []*UnitEntry
	prefixOrder []*PrefixEntry
	// prefixNames lists every prefix spelling, longest first, for splitting
	// compound identifiers.
	prefixNames []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		units:      make(map[string]*UnitEntry),
		prefixes:   make(map[string]*PrefixEntry),
		dimensions: make(map[string]*UnitEntry),
	}
}

// Clone returns a copy that can be extended without affecting r. Entries
// are immutable and shared.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		units:       make(map[string]*UnitEntry, len(r.units)),
		prefixes:    make(map[string]*PrefixEntry, len(r.prefixes)),
		dimensions:  make(map[string]*UnitEntry, len(r.dimensions)),
		unitOrder:   append([]*UnitEntry(nil), r.unitOrder...),
		prefixOrder: append([]*PrefixEntry(nil), r.prefixOrder...),
		prefixNames: append([]string(nil), r.prefixNames...),
	}
	for k, v := range r.units {
		c.units[k] = v
	}
	for k, v := range r.prefixes {
		c.prefixes[k] = v
	}
	for k, v := range r.dimensions {
		c.dimensions[k] = v
	}
	return c
}

// DefineRoot registers a root unit claiming a new base dimension.
func (r *Registry) DefineRoot(names Names, dimension string) error {
	if err := r.checkUnitNames(names); err != nil {
		return err
	}
	if owner, ok := r.dimensions[dimension]; ok {
		return newError(DimensionAlreadyDefinedError,
			"dimension %s is already defined by %s", dimension, owner.Names.Name)
	}
	e := &UnitEntry{
		Kind:      RootUnit,
		Names:     names,
		Value:     Quantity{Magnitude: 1, Dim: BaseDimension(dimension)},
		Dimension: dimension,
	}
	r.dimensions[dimension] = e
	r.addUnit(e)
	return nil
}

// DefineDerived registers a unit equal to value. The value is a snapshot:
// later definitions never change it.
func (r *Registry) DefineDerived(names Names, value Quantity) error {
	if err := r.checkUnitNames(names); err != nil {
		return err
	}
	r.addUnit(&UnitEntry{Kind: DerivedUnit, Names: names, Value: value})
	return nil
}

// DefinePrefix registers a prefix; value must be dimensionless.
func (r *Registry) DefinePrefix(names Names, value Quantity) error {
	if !value.IsDimensionless() {
		return newError(NonDimensionlessPrefixError,
			"prefix %s- must be dimensionless, got %s", names.Name, value.Dim)
	}
	seen := make(map[string]bool)
	for _, n := range names.All() {
		if seen[n] {
			return newError(NameConflictError, "name %s- is repeated in its own definition", n)
		}
		seen[n] = true
		if p, ok := r.prefixes[n]; ok {
			return newError(NameConflictError, "prefix %s- is already defined (as %s-)", n, p.Names.Name)
		}
	}
	e := &PrefixEntry{Names: names, Scale: value.Magnitude}
	for _, n := range names.All() {
		r.prefixes[n] = e
		r.prefixNames = append(r.prefixNames, n)
	}
	// Stable keeps definition order among equal lengths.
	sort.SliceStable(r.prefixNames, func(i, j int) bool {
		return len(r.prefixNames[i]) > len(r.prefixNames[j])
	})
	r.prefixOrder = append(r.prefixOrder, e)
	return nil
}

// checkUnitNames validates every name of a unit definition before anything
// is inserted, so a failed definition leaves the registry untouched.
func (r *Registry) checkUnitNames(names Names) error {
	seen := make(map[string]bool)
	for _, n := range names.All() {
		if seen[n] {
			return newError(NameConflictError, "name %s is repeated in its own definition", n)
		}
		seen[n] = true
		if u, ok := r.units[n]; ok {
			return newError(NameConflictError, "unit %s is already defined (as %s)", n, u.Names.Name)
		}
	}
	return nil
}

func (r *Registry) addUnit(e *UnitEntry) {
	for _, n := range e.Names.All() {
		r.units[n] = e
	}
	r.unitOrder = append(r.unitOrder, e)
}

// Lookup finds a unit by exact name, symbol or alias.
func (r *Registry) Lookup(name string) (*UnitEntry, bool) {
	u, ok := r.units[name]
	return u, ok
}

// LookupPrefix finds a prefix by exact name, symbol or alias.
func (r *Registry) LookupPrefix(name string) (*PrefixEntry, bool) {
	p, ok := r.prefixes[name]
	return p, ok
}

// Split decomposes an identifier into an optional prefix and a unit. An
// exact unit match wins; otherwise prefixes are tried longest first and the
// remainder must be an exact unit name.
func (r *Registry) Split(name string) (*PrefixEntry, *UnitEntry, bool) {
	if u, ok := r.units[name]; ok {
		return nil, u, true
	}
	for _, p := range r.prefixNames {
		if len(p) >= len(name) || !strings.HasPrefix(name, p) {
			continue
		}
		if u, ok := r.units[name[len(p):]]; ok {
			return r.prefixes[p], u, true
		}
	}
	return nil, nil, false
}

// Resolve maps an identifier to its value in root-unit terms.
func (r *Registry) Resolve(name string) (Quantity, error) {
	p, u, ok := r.Split(name)
	if !ok {
		return Quantity{}, newError(UnknownIdentifierError, "unknown unit %q", name)
	}
	if p == nil {
		return u.Value, nil
	}
	return Quantity{Magnitude: p.Scale * u.Value.Magnitude, Dim: u.Value.Dim}, nil
}

// RootUnit returns the canonical name of the root unit claiming dimension.
func (r *Registry) RootUnit(dimension string) (string, bool) {
	if u, ok := r.dimensions[dimension]; ok {
		return u.Names.Name, true
	}
	return "", false
}

// Units lists units in definition order.
func (r *Registry) Units() []*UnitEntry {
	return append([]*UnitEntry(nil), r.unitOrder...)
}

// Prefixes lists prefixes in definition order.
func (r *Registry) Prefixes() []*PrefixEntry {
	return append([]*PrefixEntry(nil), r.prefixOrder...)
}

// Dimensions lists the base dimensions in sorted order.
func (r *Registry) Dimensions() []string {
	dims := make([]string, 0, len(r.dimensions))
	for d := range r.dimensions {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	return dims
}
