package feature

import "fmt"

// Registry is an immutable name→calculator lookup built once at startup and
// safe to share across concurrent evaluations.
type Registry struct {
	ordered []Calculator
	byName  map[string]Calculator
}

// NewRegistry builds a registry from the given calculators. Duplicate names
// are a wiring bug and fail construction.
func NewRegistry(calcs ...Calculator) (*Registry, error) {
	r := &Registry{
		ordered: make([]Calculator, 0, len(calcs)),
		byName:  make(map[string]Calculator, len(calcs)),
	}
	for _, c := range calcs {
		if _, exists := r.byName[c.Name()]; exists {
			return nil, fmt.Errorf("duplicate feature %q", c.Name())
		}
		r.byName[c.Name()] = c
		r.ordered = append(r.ordered, c)
	}
	return r, nil
}

// Get returns the named calculator.
func (r *Registry) Get(name string) (Calculator, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// List returns all registered feature names in registration order.
func (r *Registry) List() []string {
	names := make([]string, len(r.ordered))
	for i, c := range r.ordered {
		names[i] = c.Name()
	}
	return names
}

// All returns all calculators in registration order.
func (r *Registry) All() []Calculator {
	out := make([]Calculator, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ByCategory returns the calculators in a category, in registration order.
func (r *Registry) ByCategory(cat Category) []Calculator {
	var out []Calculator
	for _, c := range r.ordered {
		if c.Category() == cat {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of registered calculators.
func (r *Registry) Len() int { return len(r.ordered) }
