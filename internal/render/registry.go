// Package render provides the output side of the dashboard watcher: a
// registry of named text surfaces the poller writes into, plus the value
// formatting helpers used to fill them.
package render

import "sync"

// Registry is an in-memory Surfaces implementation. Surfaces must be
// registered before they accept writes; a Set against an unregistered id
// reports false, which callers treat as "this page doesn't show that field".
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]string
}

// NewRegistry creates a Registry exposing the given surface ids, all empty.
func NewRegistry(ids ...string) *Registry {
	m := make(map[string]string, len(ids))
	for _, id := range ids {
		m[id] = ""
	}
	return &Registry{surfaces: m}
}

// Register adds a surface id (idempotent; existing content is kept).
func (r *Registry) Register(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surfaces[id]; !ok {
		r.surfaces[id] = ""
	}
}

// Remove drops a surface. Subsequent Sets against it report false.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surfaces, id)
}

// Set overwrites the surface text. Last write wins; there is no merging.
func (r *Registry) Set(id, text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surfaces[id]; !ok {
		return false
	}
	r.surfaces[id] = text
	return true
}

// Get returns the current surface text.
func (r *Registry) Get(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	text, ok := r.surfaces[id]
	return text, ok
}

// Snapshot returns a copy of all surfaces, for logging and tests.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.surfaces))
	for id, text := range r.surfaces {
		out[id] = text
	}
	return out
}
