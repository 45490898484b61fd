// Package memory keeps ledger records in process memory. Data does not
// survive a restart.
package memory

import (
	"context"
	"slices"
	"sync"
)

type Store struct {
	mu      sync.Mutex
	records map[string][]byte
}

func New() *Store {
	return &Store{records: make(map[string][]byte)}
}

func (s *Store) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}

	return slices.Clone(data), true, nil
}

func (s *Store) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = slices.Clone(data)

	return nil
}
