package ledger

import (
	"context"
	"errors"
	"fmt"
)

// Backend is the key-value persistence the store writes its sequence to.
//
//go:generate mockgen -source=backend.go -destination=backend_mock.go -package=ledger
type Backend interface {
	// Read returns the record stored under key. found is false when the key
	// has never been written.
	Read(ctx context.Context, key string) (data []byte, found bool, err error)
	// Write replaces the record stored under key.
	Write(ctx context.Context, key string, data []byte) error
}

var (
	ErrNotFound     = errors.New("transaction not found")
	ErrNotPersisted = errors.New("ledger changed in memory but was not saved")
)

// PersistError is returned alongside a successful in-memory mutation whose
// write to the backend failed.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persisting ledger %q: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() []error {
	return []error{ErrNotPersisted, e.Err}
}
