package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/summary"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

type addCmd struct {
	*app

	typ         string
	amount      string
	description string
	date        string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or an expense" }
func (*addCmd) Usage() string {
	return `add -type <income|expense> -amount <amount> -desc <description> [-date YYYY-MM-DD]

  Records a transaction. The date defaults to today.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "Transaction type: income or expense (required)")
	f.StringVar(&c.amount, "amount", "", "Positive amount, e.g. 12.50 (required)")
	f.StringVar(&c.description, "desc", "", "Description (required)")
	f.StringVar(&c.date, "date", "", "Date as YYYY-MM-DD, defaults to today")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	s, err := c.open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	tx, err := s.store.Add(ctx, transaction.Draft{
		Type:        transaction.Type(c.typ),
		Amount:      c.amount,
		Description: c.description,
		Date:        c.date,
	})

	var verr *transaction.ValidationError

	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(os.Stderr, "Error: invalid %s: %v\n", verr.Field, verr.Err)
		return subcommands.ExitUsageError
	case errors.Is(err, ledger.ErrNotPersisted):
		fmt.Fprintf(os.Stderr, "Error: transaction %d could not be saved: %v\n", tx.ID, err)
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	c.printf("Added %d: %s %s %q on %s\n",
		tx.ID, tx.Type, summary.Format(tx.Amount, s.currency), tx.Description, tx.Date.Format("2006-01-02"))

	return subcommands.ExitSuccess
}
