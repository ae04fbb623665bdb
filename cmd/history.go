package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/renderer"
)

type historyCmd struct {
	queryFlags
	json bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the value and invested capital over time" }
func (*historyCmd) Usage() string {
	return `folio history [-r <range>] [-g daily|weekly] [-p <ids>] [-json]

  Replays the transactions and displays, for each date of the grid, the portfolio value,
  the invested capital and the cumulative dividends in base currency.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	c.queryFlags.SetFlags(f)
	f.BoolVar(&c.json, "json", false, "Print the history as JSON lines.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := c.query()
	if err != nil {
		return usage("Error parsing flags: %v", err)
	}
	svc, store, err := openService()
	if err != nil {
		return fail("Error loading project: %v", err)
	}
	defer store.Close()

	points, err := svc.History(ctx, q)
	if err != nil {
		return fail("Error computing history: %v", err)
	}
	if c.json {
		if err := portfolio.EncodeHistory(os.Stdout, points); err != nil {
			return fail("Error encoding history: %v", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.HistoryMarkdown(svc.Inputs().Base(), points, nil))
	return subcommands.ExitSuccess
}
