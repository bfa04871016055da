// Package registry holds the catalog of registered data sources.
package registry

import (
	"sort"
	"sync"

	"github.com/assetops/ragline/internal/domain/source"
)

// Registry is the data source catalog. It is populated once at startup by
// domain bootstrap code and read-only afterwards; the mutex only guards
// against a misbehaving late registration racing a read.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]source.Source
	order   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{sources: make(map[string]source.Source)}
}

// Register adds a source. Idempotent by name; last write wins.
func (r *Registry) Register(s source.Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sources[s.Name()]; !exists {
		r.order = append(r.order, s.Name())
	}
	r.sources[s.Name()] = s
}

// Get looks up a source by name.
func (r *Registry) Get(name string) (source.Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// All returns every registered source in registration order.
func (r *Registry) All() []source.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]source.Source, 0, len(r.sources))
	for _, name := range r.order {
		out = append(out, r.sources[name])
	}
	return out
}

// Resolve maps intent entity names to sources. Unknown names are skipped;
// an empty or fully unresolvable list selects all sources, so a
// misclassified entity degrades to a broad query instead of an empty
// answer.
func (r *Registry) Resolve(entities []string) []source.Source {
	if len(entities) == 0 {
		return r.All()
	}
	var out []source.Source
	for _, name := range entities {
		if s, ok := r.Get(name); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return r.All()
	}
	return out
}

// Names returns the registered source names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}
