// Package summary derives aggregate figures from a ledger snapshot.
package summary

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

// Totals holds the figures shown above the transaction list.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
	Count    int
}

// TotalIncome sums the amounts of all income entries.
func TotalIncome(txs []transaction.Transaction) decimal.Decimal {
	return sumOf(txs, transaction.TypeIncome)
}

// TotalExpenses sums the amounts of all expense entries.
func TotalExpenses(txs []transaction.Transaction) decimal.Decimal {
	return sumOf(txs, transaction.TypeExpense)
}

// Net is total income minus total expenses.
func Net(txs []transaction.Transaction) decimal.Decimal {
	return TotalIncome(txs).Sub(TotalExpenses(txs))
}

// Compute returns all totals in a single pass.
func Compute(txs []transaction.Transaction) Totals {
	totals := Totals{
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
		Count:    len(txs),
	}

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			totals.Income = totals.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			totals.Expenses = totals.Expenses.Add(tx.Amount)
		}
	}

	totals.Net = totals.Income.Sub(totals.Expenses)

	return totals
}

func sumOf(txs []transaction.Transaction, typ transaction.Type) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Type == typ {
			sum = sum.Add(tx.Amount)
		}
	}

	return sum
}

// Format renders amount in the given ISO 4217 currency, e.g. "$1,234.50".
// Amounts finer than the currency's minor unit are rounded half away from zero.
func Format(amount decimal.Decimal, currency string) string {
	cur := money.New(0, currency).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()

	return money.New(minor, currency).Display()
}
