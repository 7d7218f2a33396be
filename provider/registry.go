package provider

import (
	"strings"
	"sync"

	"github.com/kbukum/sttkit/errors"
)

// Registry holds named providers in registration order. It is safe for
// concurrent use.
type Registry[T Provider] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register adds p under p.Name(). Empty names and duplicates are rejected.
func (r *Registry[T]) Register(p T) error {
	name := p.Name()
	if strings.TrimSpace(name) == "" {
		return errors.InvalidInput("name", "provider name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[name]; exists {
		return errors.AlreadyExists("provider", name)
	}
	r.items[name] = p
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (r *Registry[T]) MustRegister(p T) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Lookup returns the provider registered under name.
func (r *Registry[T]) Lookup(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[name]
	return p, ok
}

// List returns all providers in registration order.
func (r *Registry[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.items[name])
	}
	return out
}

// Names returns the registered names in registration order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Len returns the number of registered providers.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
