package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/tracker/internal/summary"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

type listCmd struct {
	*app

	typ   string
	start string
	end   string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "print transactions in insertion order" }
func (*listCmd) Usage() string {
	return `list [-type <income|expense>] [-start YYYY-MM-DD] [-end YYYY-MM-DD]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "Only show this type")
	f.StringVar(&c.start, "start", "", "Only show transactions on or after this date")
	f.StringVar(&c.end, "end", "", "Only show transactions on or before this date")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	filter, err := parseFilter(c.typ, c.start, c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := c.open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	txs := filter.Apply(s.store.List())
	if len(txs) == 0 {
		c.printf("No transactions.\n")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tDate\tType\tAmount\tDescription\t")

	for _, tx := range txs {
		amount := tx.Amount
		if tx.Type == transaction.TypeExpense {
			amount = amount.Neg()
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n",
			tx.ID, tx.Date.Format("2006-01-02"), tx.Type, summary.Format(amount, s.currency), tx.Description)
	}

	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
