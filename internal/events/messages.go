package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

// TransactionMessage announces a persisted ledger mutation.
type TransactionMessage struct {
	MessageID   uuid.UUID          `json:"message_id"`
	Kind        ledger.EventKind   `json:"kind"`
	Ledger      string             `json:"ledger"`
	Transaction transactionPayload `json:"transaction"`
	Timestamp   time.Time          `json:"timestamp"`
}

type transactionPayload struct {
	ID          int64            `json:"id"`
	Type        transaction.Type `json:"type"`
	Amount      string           `json:"amount"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
}

func NewTransactionMessage(ev ledger.Event, now time.Time) *TransactionMessage {
	tx := ev.Transaction

	return &TransactionMessage{
		MessageID: uuid.New(),
		Kind:      ev.Kind,
		Ledger:    ev.Key,
		Transaction: transactionPayload{
			ID:          tx.ID,
			Type:        tx.Type,
			Amount:      tx.Amount.String(),
			Description: tx.Description,
			Date:        tx.Date.Format(time.DateOnly),
		},
		Timestamp: now,
	}
}

func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RoutingKey is "transaction.<kind>", e.g. "transaction.added".
func (m *TransactionMessage) RoutingKey() string {
	return "transaction." + string(m.Kind)
}
