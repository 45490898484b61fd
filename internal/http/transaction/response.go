package transaction

import (
	"time"

	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

type transactionResponse struct {
	ID          int64            `json:"id"`
	Type        transaction.Type `json:"type"`
	Amount      string           `json:"amount"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
}

// mutationResponse reports whether the change reached storage. An unpersisted
// change is still applied in memory.
type mutationResponse struct {
	transactionResponse
	Persisted bool `json:"persisted"`
}

func toResponse(tx transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        tx.Type,
		Amount:      tx.Amount.String(),
		Description: tx.Description,
		Date:        tx.Date.Format(time.DateOnly),
	}
}

func toResponseList(txs []transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
