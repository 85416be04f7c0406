// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"cmp"
	"errors"
	"slices"
	"sync"
)

// Factory creates a new Surface with the given options.
type Factory func(opts Options) (Surface, error)

// Backend describes a registered surface implementation.
type Backend struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	Priority int

	// Factory creates surface instances.
	Factory Factory
}

// ErrNoBackendAvailable is returned when no surface backend is registered.
var ErrNoBackendAvailable = errors.New("surface: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// Registry maps backend names to surface factories. Render targets for the
// engine and the demo CLI are created through it, so embedders can plug in
// their own Surface implementations.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates an empty registry.
// Most code should use the package-level Register and NewSurface.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

var defaultRegistry = NewRegistry()

func init() {
	Register("image", 10, func(opts Options) (Surface, error) {
		s := NewImageSurface(opts.Width, opts.Height)
		if opts.Background != nil {
			s.Clear(opts.Background)
		}
		return s, nil
	})
}

// Register adds a backend to the default registry, replacing any backend
// with the same name.
func Register(name string, priority int, factory Factory) {
	defaultRegistry.Register(name, priority, factory)
}

// Backends returns the default registry's backend names, highest priority first.
func Backends() []string {
	return defaultRegistry.Names()
}

// NewSurface creates a surface with the highest-priority backend of the
// default registry.
func NewSurface(opts Options) (Surface, error) {
	return defaultRegistry.NewSurface(opts)
}

// NewSurfaceByName creates a surface with a named backend of the default
// registry.
func NewSurfaceByName(name string, opts Options) (Surface, error) {
	return defaultRegistry.NewSurfaceByName(name, opts)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[name] = Backend{Name: name, Priority: priority, Factory: factory}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.backends, name)
}

// Get returns a registered backend.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// Names returns backend names sorted by priority (highest first), then name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		list = append(list, b)
	}
	slices.SortFunc(list, func(a, b Backend) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.Name
	}
	return names
}

// NewSurface creates a surface using the best backend, trying the next one
// when a factory fails.
func (r *Registry) NewSurface(opts Options) (Surface, error) {
	names := r.Names()
	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}
	var errs []error
	for _, name := range names {
		s, err := r.NewSurfaceByName(name, opts)
		if err == nil {
			return s, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// NewSurfaceByName creates a surface using a specific backend.
func (r *Registry) NewSurfaceByName(name string, opts Options) (Surface, error) {
	b, ok := r.Get(name)
	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	return b.Factory(opts)
}
