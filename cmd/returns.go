package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/matkaise/openfolio-sub000/renderer"
	"github.com/matkaise/openfolio-sub000/service"
)

type returnsCmd struct {
	queryFlags
	model     string
	dividends bool
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "display the cumulative return series" }
func (*returnsCmd) Usage() string {
	return `folio returns [-m twr|mwr] [-dividends] [-r <range>] [-g daily|weekly] [-p <ids>]

  Displays the time weighted (twr) or money weighted (mwr) cumulative return over the range.
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) {
	c.queryFlags.SetFlags(f)
	f.StringVar(&c.model, "m", "twr", "Return model: twr or mwr.")
	f.BoolVar(&c.dividends, "dividends", false, "Add the dividends received back to the value.")
}

var returnTitles = map[service.ReturnKind]string{
	service.TWR: "Time Weighted Return",
	service.MWR: "Money Weighted Return",
}

func (c *returnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := service.ParseReturnKind(c.model)
	if err != nil {
		return usage("Error parsing -m: %v", err)
	}
	q, err := c.query()
	if err != nil {
		return usage("Error parsing flags: %v", err)
	}
	svc, store, err := openService()
	if err != nil {
		return fail("Error loading project: %v", err)
	}
	defer store.Close()

	series, err := svc.Returns(ctx, kind, q, c.dividends)
	if err != nil {
		return fail("Error computing returns: %v", err)
	}
	printMarkdown(renderer.SeriesMarkdown(returnTitles[kind], series))
	return subcommands.ExitSuccess
}
