// Package registry is a typed, concurrency-safe lookup from feature
// name to its *pipeline.Feature, so a host application can fan a
// single Write-style call out to whichever feature a caller names at
// runtime. Generalized from the teacher's per-URL-scope handler table
// (one handler instantiated per configured path) to one pipeline
// instantiated per configured feature name.
package registry

import (
	"sync"

	"github.com/pkg/errors"
)

// Registry holds a fixed set of named values, registered once at
// startup and looked up by name for the lifetime of the process.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New returns an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register adds name to the registry. It returns an error if name is
// already registered, since silently shadowing a feature's pipeline
// would make its backlog unreachable.
func (r *Registry[T]) Register(name string, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[name]; exists {
		return errors.Errorf("registry: %q already registered", name)
	}
	r.items[name] = item
	return nil
}

// Get returns the item registered under name.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[name]
	return item, ok
}

// Names returns every currently registered name, in no particular order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	return names
}
