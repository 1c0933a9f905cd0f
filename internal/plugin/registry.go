// Copyright (c) 2025 T3Compat
// Licensed under the MIT License. See LICENSE file in the project root for details.

package plugin

import (
	"fmt"
	"sort"
	"sync"

	cerrors "t3compat/internal/errors"
)

// Factory creates a fresh plugin value for one invocation.
type Factory func() any

// Registry maps plugin names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Registering a name twice is an error, to prevent
// accidental overrides.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return cerrors.New(cerrors.InvalidArgument, "plugin registry: name and factory are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return cerrors.New(cerrors.InvalidArgument, fmt.Sprintf("plugin registry: plugin %q already registered", name))
	}
	r.factories[name] = f
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered plugin names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Register adds a factory to the default registry. It panics on duplicates
// and is meant to be called from init functions.
func Register(name string, f Factory) {
	if err := defaultRegistry.Register(name, f); err != nil {
		panic(err)
	}
}

// Lookup finds a factory in the default registry.
func Lookup(name string) (Factory, bool) {
	return defaultRegistry.Lookup(name)
}

// Default returns the default registry.
func Default() *Registry {
	return defaultRegistry
}
