package catalog

import (
	"fmt"
	"sort"

	"github.com/revpi-tools/picontrol-go/pkg/variable"
)

// Entry is one cataloged variable.
type Entry struct {
	// Name is the variable name, unique within the registry.
	Name string

	// Device is the name of the I/O module the variable belongs to.
	Device string

	// Descriptor locates the variable in the process image.
	Descriptor variable.Descriptor

	// Comment is free-form documentation from the catalog file.
	Comment string
}

// Registry is a read-only collection of cataloged variables.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

// newRegistry builds a registry from validated entries.
func newRegistry(entries []Entry) (*Registry, error) {
	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog: entry %d has no name", i)
		}
		if _, dup := byName[e.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate variable %q", e.Name)
		}
		if err := e.Descriptor.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: variable %q: %w", e.Name, err)
		}
		byName[e.Name] = i
	}
	return &Registry{entries: entries, byName: byName}, nil
}

// Lookup returns the entry for the given variable name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns all entries in file order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns all variable names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Device returns the entries belonging to the named I/O module, in file
// order.
func (r *Registry) Device(name string) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Device == name {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of cataloged variables.
func (r *Registry) Len() int {
	return len(r.entries)
}
