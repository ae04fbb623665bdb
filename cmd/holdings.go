package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/matkaise/openfolio-sub000/renderer"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	portfolios string
	json       bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the current holdings" }
func (*holdingsCmd) Usage() string {
	return `folio holdings [-p <ids>] [-json]

  Displays the current positions valued at their latest price, with their average cost and
  realized gains.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolios, "p", "", "Comma separated portfolio ids to include, all by default.")
	f.BoolVar(&c.json, "json", false, "Print the report as JSON.")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, store, err := openService()
	if err != nil {
		return fail("Error loading project: %v", err)
	}
	defer store.Close()

	report, err := svc.Holdings(ctx, splitList(c.portfolios), nil)
	if err != nil {
		return fail("Error computing holdings: %v", err)
	}
	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fail("Error encoding holdings: %v", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.HoldingsMarkdown(report))
	return subcommands.ExitSuccess
}
