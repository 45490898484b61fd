package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/tracker/internal/importer"
	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

type importCmd struct {
	*app

	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "add every row of a CSV export" }
func (*importCmd) Usage() string {
	return `import [-n] <file.csv>

  Reads a ledger export (type,amount,description,date) or a bank statement
  (semicolon separated, European amounts). Either every row is added or none.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "Parse and report without adding anything")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one CSV file is required.")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	res, err := importer.Parse(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	c.printf("Detected %s layout (%s), %d rows, %d skipped.\n",
		res.Profile, res.Charset, len(res.Drafts), res.Skipped)

	if c.dryRun {
		return subcommands.ExitSuccess
	}

	s, err := c.open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	txs, err := s.store.AddBatch(ctx, res.Drafts)

	var batchErr *transaction.BatchError

	switch {
	case errors.As(err, &batchErr):
		fmt.Fprintf(os.Stderr, "Error: nothing imported, %s\n", res.Explain(batchErr))
		return subcommands.ExitFailure
	case errors.Is(err, ledger.ErrNotPersisted):
		fmt.Fprintf(os.Stderr, "Error: %d transactions could not be saved: %v\n", len(txs), err)
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	c.printf("Imported %d transactions.\n", len(txs))

	return subcommands.ExitSuccess
}
