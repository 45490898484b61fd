package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	register(commander, &app{out: os.Stdout})

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander, a *app) {
	c.Register(&addCmd{app: a}, "transactions")
	c.Register(&removeCmd{app: a}, "transactions")
	c.Register(&importCmd{app: a}, "transactions")

	c.Register(&listCmd{app: a}, "reports")
	c.Register(&summaryCmd{app: a}, "reports")
}
