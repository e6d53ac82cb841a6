// internal/widget/registry.go
//
// Widget type registry and lookup helpers.
//
// A **widget kind** is the tag a template's widget descriptor carries in
// its `type` field, e.g. "task-list".  The registry maps each tag to an
// implementation value chosen by the host: the daemon stores a renderer
// identifier string, an embedding UI may store a constructor.
//
// The registry serves two readers:
//
//   - the engine, which rejects templates referencing unknown kinds
//     during validation, and
//   - the renderer, which resolves a kind to its implementation.
//
// Registration is last-write-wins so hosts can replace built-in kinds
// with their own implementation.
package widget

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/yanizio/layoutkit/internal/metrics"
)

// ErrEmptyKind is returned when Register is called with a blank tag.
var ErrEmptyKind = errors.New("widget: kind must be non-empty")

// Registry maps kind tags to implementations of type T.  The zero value
// is not usable; construct with NewRegistry.  Safe for concurrent use.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]T)}
}

// Register inserts or overwrites the implementation for kind.
func (r *Registry[T]) Register(kind string, impl T) error {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return ErrEmptyKind
	}
	r.mu.Lock()
	r.entries[kind] = impl
	n := len(r.entries)
	r.mu.Unlock()

	metrics.WidgetKindsRegistered.Set(float64(n))
	return nil
}

// Lookup returns the implementation for kind.  ok is false for unknown
// kinds; that is a valid answer, not an error.
func (r *Registry[T]) Lookup(kind string) (impl T, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok = r.entries[kind]
	return impl, ok
}

// Has reports whether kind is registered.
func (r *Registry[T]) Has(kind string) bool {
	_, ok := r.Lookup(kind)
	return ok
}

// All returns a copy of the registry map.  Mutating the result does not
// affect the registry.
func (r *Registry[T]) All() map[string]T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]T, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Kinds returns the registered tags in lexical order.
func (r *Registry[T]) Kinds() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
