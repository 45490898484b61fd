package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single recorded ledger entry. It is immutable once created.
type Transaction struct {
	ID          int64
	Type        Type
	Amount      decimal.Decimal
	Description string
	Date        time.Time // UTC midnight
}

// Equal reports whether both transactions carry the same fields. Amounts are
// compared numerically, so "100" and "100.00" are equal.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Type == o.Type &&
		t.Amount.Equal(o.Amount) &&
		t.Description == o.Description &&
		t.Date.Equal(o.Date)
}

// Draft is unvalidated user input for a prospective transaction.
type Draft struct {
	Type        Type   `validate:"required,oneof=income expense"`
	Amount      string `validate:"required,decimal"`
	Description string `validate:"required"`
	Date        string `validate:"omitempty,datetime=2006-01-02"`
}

// Filter narrows a sequence of transactions. Nil fields match everything.
type Filter struct {
	Type      *Type
	StartDate *time.Time
	EndDate   *time.Time
}

// Apply returns the transactions matching the filter, preserving order.
func (f Filter) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))

	for _, tx := range txs {
		if f.Type != nil && tx.Type != *f.Type {
			continue
		}

		if f.StartDate != nil && tx.Date.Before(*f.StartDate) {
			continue
		}

		if f.EndDate != nil && tx.Date.After(*f.EndDate) {
			continue
		}

		out = append(out, tx)
	}

	return out
}
