// Package overlay provides a concurrency-safe key/value overlay for
// optimistic UI state, such as in-flight group positions that have not
// yet round-tripped through persistence.
package overlay

import "sync"

// Overlay maps string keys to pending values
type Overlay[V any] struct {
	mu      sync.RWMutex
	pending map[string]V
}

// New creates an empty overlay
func New[V any]() *Overlay[V] {
	return &Overlay[V]{pending: make(map[string]V)}
}

// Set records a pending value for the key
func (o *Overlay[V]) Set(key string, value V) {
	o.mu.Lock()
	o.pending[key] = value
	o.mu.Unlock()
}

// Get returns the pending value for the key, if any
func (o *Overlay[V]) Get(key string) (V, bool) {
	o.mu.RLock()
	v, ok := o.pending[key]
	o.mu.RUnlock()
	return v, ok
}

// Remove drops the pending value for the key, typically once the
// authoritative write has landed
func (o *Overlay[V]) Remove(key string) {
	o.mu.Lock()
	delete(o.pending, key)
	o.mu.Unlock()
}

// Clear drops all pending values, used when switching maps
func (o *Overlay[V]) Clear() {
	o.mu.Lock()
	o.pending = make(map[string]V)
	o.mu.Unlock()
}

// Len returns the number of pending values
func (o *Overlay[V]) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.pending)
}
