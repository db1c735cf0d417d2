// Command portfolio imports brokerage exports, backfills prices and prints valuations
// against the local database.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/rirwin/stock-analysis/internal/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&importCmd{}, "orders")
	commander.Register(&valueCmd{}, "valuation")
	commander.Register(&gainCmd{}, "valuation")
	commander.Register(&holdingsCmd{}, "valuation")
	commander.Register(&backfillCmd{}, "prices")

	flag.Parse()
	status := commander.Execute(context.Background())
	logger.Sync()
	os.Exit(int(status))
}
