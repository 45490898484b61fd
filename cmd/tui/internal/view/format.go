package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tracker/internal/summary"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

const storeTimeout = 5 * time.Second

// FormatAmount renders an amount in the display currency.
func FormatAmount(amount decimal.Decimal, currency string) string {
	return summary.Format(amount, currency)
}

// FormatSigned renders expenses as negative amounts.
func FormatSigned(tx transaction.Transaction, currency string) string {
	if tx.Type == transaction.TypeExpense {
		return FormatAmount(tx.Amount.Neg(), currency)
	}

	return FormatAmount(tx.Amount, currency)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// StoreCtx returns a context with a standard timeout for ledger writes.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}
