package sync

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Binding connects one local collection to the mirror. Domain packages
// register how their records serialize outward and how a remote document is
// applied inward (add when absent, shallow-merge update when present).
type Binding struct {
	Collection string
	// ExportAll snapshots every local record as mirror documents. Used by
	// the bulk migration path.
	ExportAll func(ctx context.Context) ([]Document, error)
	// Apply upserts one remote document into the local store. It must never
	// delete: an empty remote snapshot leaves local data untouched.
	Apply func(ctx context.Context, doc Document) error
}

type Registry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]Binding)}
}

func (r *Registry) Register(b Binding) error {
	if b.Collection == "" {
		return fmt.Errorf("binding collection is required")
	}
	if b.Apply == nil {
		return fmt.Errorf("binding %s: apply func is required", b.Collection)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bindings[b.Collection]; exists {
		return fmt.Errorf("binding %s already registered", b.Collection)
	}
	r.bindings[b.Collection] = b
	return nil
}

func (r *Registry) Get(collection string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[collection]
	return b, ok
}

// All returns bindings in stable collection-name order.
func (r *Registry) All() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Collection < out[j].Collection })
	return out
}
