// Package resolver provides the registry of named resolver functions that
// inline expressions may call.
//
// Functions are registered under dotted names ("fmt.upper",
// "inventory.count") and invoked with positional arguments. A function
// may block on its context to perform asynchronous work (storage reads,
// business calls); the engine suspends at the call site until it returns.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Func is a resolver function. Implementations should honor ctx
// cancellation; the engine does not abort in-flight calls itself.
type Func func(ctx context.Context, args ...any) (any, error)

// ErrNotFound indicates a called function name is absent from the
// registry.
var ErrNotFound = errors.New("resolver not found")

// Registry is a thread-safe mapping from dotted function name to Func.
// It uses sync.RWMutex for read-heavy workloads: expressions call far
// more often than hosts register.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Func)}
}

// Register adds or replaces a function under name.
// Returns an error if name is empty or fn is nil.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return errors.New("resolver name is required")
	}
	if fn == nil {
		return errors.New("resolver function is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = fn
	return nil
}

// MustRegister registers a function, panicking on error.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// RegisterMany adds multiple functions.
func (r *Registry) RegisterMany(entries map[string]Func) error {
	for name, fn := range entries {
		if err := r.Register(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the function for a name and whether it exists.
func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.entries[name]
	return fn, ok
}

// Has returns true if name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes the function registered under name.
// Returns an error wrapping ErrNotFound when the name is absent.
func (r *Registry) Call(ctx context.Context, name string, args ...any) (any, error) {
	fn, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return fn(ctx, args...)
}
