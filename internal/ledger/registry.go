package ledger

import (
	"context"
	"fmt"
	"sync"
)

// Registry hands out one loaded Store per ledger key, so every client of the
// same ledger shares a single writer.
type Registry struct {
	backend Backend
	base    string
	opts    []Option

	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry creates a registry whose ledgers are named after base.
func NewRegistry(backend Backend, base string, opts ...Option) *Registry {
	return &Registry{
		backend: backend,
		base:    base,
		opts:    opts,
		stores:  make(map[string]*Store),
	}
}

// KeyFor returns the record key of the ledger owned by owner. The anonymous
// owner maps to the base key.
func (r *Registry) KeyFor(owner string) string {
	if owner == "" {
		return r.base
	}

	return r.base + ":" + owner
}

// Store returns the store for owner, loading it from the backend on first use.
// The load is detached from ctx cancellation. A ledger whose backend read
// fails is not cached, so the next call retries instead of overwriting the
// stored history with an empty sequence.
func (r *Registry) Store(ctx context.Context, owner string) (*Store, error) {
	key := r.KeyFor(owner)

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[key]; ok {
		return s, nil
	}

	s := New(r.backend, key, r.opts...)

	s.mu.Lock()
	err := s.load(context.WithoutCancel(ctx))
	s.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("load ledger %q: %w", key, err)
	}

	r.stores[key] = s

	return s, nil
}
