// Package registry implements a named-provider lookup for policy and reader
// plug-ins, per spec.md section 4.7.
//
// Unlike the global factory registries of this style found elsewhere in the
// corpus, a Registry here is an explicit value: the host builds one during
// initialization and passes it to whatever needs to resolve a name, rather
// than reaching through a package-level mutable singleton (spec.md section
// 9, "Global registries").
package registry

import (
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Factory produces a new instance of T, taking no arguments. Policies and
// readers that need collaborators are expected to close over them before
// being registered.
type Factory[T any] func() T

// Registry is a named-provider lookup for zero-argument factories of T.
type Registry[T any] struct {
	mu       sync.RWMutex
	entries  map[string]Factory[T]
	fallback string
}

// New returns an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]Factory[T])}
}

// Register adds a factory under name, overwriting any prior entry.
func (r *Registry[T]) Register(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = factory
}

// SetDefault marks name as the provider returned by Default. It must already
// be registered.
func (r *Registry[T]) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("registry: cannot set default: %q is not registered", name)
	}
	r.fallback = name
	return nil
}

// Get resolves name to a new instance of T.
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.entries[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("registry: no provider registered for %q (have %v)", name, r.namesLocked())
	}
	return factory(), nil
}

// Default resolves the provider named by SetDefault.
func (r *Registry[T]) Default() (T, error) {
	r.mu.RLock()
	name := r.fallback
	r.mu.RUnlock()
	if name == "" {
		var zero T
		return zero, fmt.Errorf("registry: no default provider set")
	}
	return r.Get(name)
}

// Names returns every registered name, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry[T]) namesLocked() []string {
	names := maps.Keys(r.entries)
	slices.Sort(names)
	return names
}
