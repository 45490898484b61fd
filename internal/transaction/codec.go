package transaction

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// record is the persisted shape of a transaction. The layout matches what the
// browser tracker kept in local storage, so exported data loads unchanged.
type record struct {
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	ID          *int64          `json:"id"`
}

// Encode serializes the sequence as a JSON array, preserving order.
func Encode(txs []Transaction) ([]byte, error) {
	records := make([]record, len(txs))
	for i, tx := range txs {
		records[i] = record{
			Type:        tx.Type,
			Amount:      tx.Amount,
			Description: tx.Description,
			Date:        tx.Date.Format(time.DateOnly),
			ID:          new(tx.ID),
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding transactions: %w", err)
	}

	return data, nil
}

// Decode parses data produced by Encode. Amounts are accepted both as JSON
// strings and numbers. Any record that breaks a ledger invariant makes the
// whole payload malformed.
func Decode(data []byte) ([]Transaction, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	txs := make([]Transaction, 0, len(records))
	seen := make(map[int64]struct{}, len(records))

	for i, r := range records {
		if r.ID == nil {
			return nil, fmt.Errorf("%w: record %d has no id", ErrMalformed, i)
		}

		if _, dup := seen[*r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrMalformed, *r.ID)
		}

		seen[*r.ID] = struct{}{}

		if !r.Type.Valid() {
			return nil, fmt.Errorf("%w: record %d has type %q", ErrMalformed, i, r.Type)
		}

		date, err := time.Parse(time.DateOnly, r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}

		txs = append(txs, Transaction{
			ID:          *r.ID,
			Type:        r.Type,
			Amount:      r.Amount,
			Description: r.Description,
			Date:        date,
		})
	}

	return txs, nil
}
