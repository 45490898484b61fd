package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/tracker/internal/summary"
)

type summaryCmd struct {
	*app

	start string
	end   string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print total income, total expenses and net balance" }
func (*summaryCmd) Usage() string {
	return `summary [-start YYYY-MM-DD] [-end YYYY-MM-DD]
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "Only count transactions on or after this date")
	f.StringVar(&c.end, "end", "", "Only count transactions on or before this date")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	filter, err := parseFilter("", c.start, c.end)
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

	totals := summary.Compute(filter.Apply(s.store.List()))

	c.printf("Income:   %s\n", summary.Format(totals.Income, s.currency))
	c.printf("Expenses: %s\n", summary.Format(totals.Expenses, s.currency))
	c.printf("Net:      %s\n", summary.Format(totals.Net, s.currency))
	c.printf("(%d transactions)\n", totals.Count)

	return subcommands.ExitSuccess
}
