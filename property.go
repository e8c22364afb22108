package ical

import (
	"strings"

	"github.com/pkg/errors"
)

// A Property is one named, typed value attached to a component, together
// with its parameters.
type Property struct {
	Name   string
	Params Parameters
	Value  Value
}

// Properties is an ordered collection of properties with case-insensitive
// name lookup. The same name may appear multiple times (repeated
// properties such as ATTENDEE); entries keep their insertion order. The
// zero value is ready to use.
//
// A fully built Properties value may be read concurrently; mutation needs
// external serialization.
type Properties struct {
	entries []*Property
	index   map[string][]int
}

// Add appends a property, keeping any existing entries with the same
// name.
func (ps *Properties) Add(p *Property) {
	if ps.index == nil {
		ps.index = make(map[string][]int)
	}
	key := strings.ToUpper(p.Name)
	ps.index[key] = append(ps.index[key], len(ps.entries))
	ps.entries = append(ps.entries, p)
}

// Set replaces every property sharing p's name with p.
func (ps *Properties) Set(p *Property) {
	ps.Remove(p.Name)
	ps.Add(p)
}

// Get returns the first property with the given name, or
// ErrMissingProperty if none exists.
func (ps *Properties) Get(name string) (*Property, error) {
	idx := ps.index[strings.ToUpper(name)]
	if len(idx) == 0 {
		return nil, errors.Wrap(ErrMissingProperty, name)
	}
	return ps.entries[idx[0]], nil
}

// GetAll returns every property with the given name in insertion order,
// or nil if absent.
func (ps *Properties) GetAll(name string) []*Property {
	idx := ps.index[strings.ToUpper(name)]
	if len(idx) == 0 {
		return nil
	}

	out := make([]*Property, len(idx))
	for i, j := range idx {
		out[i] = ps.entries[j]
	}
	return out
}

// Has reports whether at least one property with the given name exists.
func (ps *Properties) Has(name string) bool {
	return len(ps.index[strings.ToUpper(name)]) > 0
}

// Remove deletes every property with the given name.
func (ps *Properties) Remove(name string) {
	key := strings.ToUpper(name)
	if len(ps.index[key]) == 0 {
		return
	}

	kept := ps.entries[:0]
	for _, p := range ps.entries {
		if !strings.EqualFold(p.Name, name) {
			kept = append(kept, p)
		}
	}
	ps.entries = kept
	ps.rebuildIndex()
}

// Len returns the number of property entries.
func (ps *Properties) Len() int {
	return len(ps.entries)
}

// Each calls fn for every property in insertion order.
func (ps *Properties) Each(fn func(*Property)) {
	for _, p := range ps.entries {
		fn(p)
	}
}

func (ps *Properties) rebuildIndex() {
	ps.index = make(map[string][]int, len(ps.entries))
	for i, p := range ps.entries {
		key := strings.ToUpper(p.Name)
		ps.index[key] = append(ps.index[key], i)
	}
}
