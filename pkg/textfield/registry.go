package textfield

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps instance identifiers to live adapters. One Registry is owned
// by one Plugin; at most one adapter is registered per id.
type Registry struct {
	mu       sync.RWMutex
	adapters map[int64]*Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[int64]*Adapter)}
}

// Register adds adapter under id. Registering a live id fails with
// ErrDuplicateInstance and leaves the existing entry untouched.
func (r *Registry) Register(id int64, adapter *Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateInstance, id)
	}
	r.adapters[id] = adapter
	ActiveInstances.Inc()
	return nil
}

// Lookup returns the adapter registered under id.
func (r *Registry) Lookup(id int64) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[id]
	return a, ok
}

// Unregister removes id. Unknown ids are ignored.
func (r *Registry) Unregister(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[id]; ok {
		delete(r.adapters, id)
		ActiveInstances.Dec()
	}
}

// remove deletes id only while it still maps to adapter.
func (r *Registry) remove(id int64, adapter *Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.adapters[id] == adapter {
		delete(r.adapters, id)
		ActiveInstances.Dec()
	}
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}

// IDs returns the live instance ids in ascending order.
func (r *Registry) IDs() []int64 {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clear removes every entry and returns the removed adapters in id order.
// Disposing them is the caller's job.
func (r *Registry) Clear() []*Adapter {
	r.mu.Lock()
	ids := make([]int64, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	removed := make([]*Adapter, 0, len(ids))
	for _, id := range ids {
		removed = append(removed, r.adapters[id])
	}
	ActiveInstances.Sub(float64(len(ids)))
	r.adapters = make(map[int64]*Adapter)
	r.mu.Unlock()
	return removed
}
