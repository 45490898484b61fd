package ledger

import (
	"context"

	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

// EventKind identifies the mutation reported to listeners.
type EventKind string

const (
	EventAdded   EventKind = "added"
	EventRemoved EventKind = "removed"
)

// Event describes a mutation that was applied and persisted.
type Event struct {
	Kind        EventKind
	Key         string
	Transaction transaction.Transaction
}

// Listener observes persisted mutations. Notify runs on the writer's goroutine
// after the store lock is released, so a slow listener delays only the caller
// that made the change. Events of concurrent writers may arrive out of order.
type Listener interface {
	Notify(ctx context.Context, ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, ev Event)

func (f ListenerFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }
