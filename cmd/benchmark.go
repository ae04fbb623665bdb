package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/matkaise/openfolio-sub000/renderer"
)

type benchmarkCmd struct {
	queryFlags
}

func (*benchmarkCmd) Name() string     { return "benchmark" }
func (*benchmarkCmd) Synopsis() string { return "compare the portfolio cash flows invested in a benchmark" }
func (*benchmarkCmd) Usage() string {
	return `folio benchmark [-r <range>] [-g daily|weekly] [-p <ids>] <name|isin>

  Invests every portfolio cash flow in the benchmark and displays the money weighted return
  of that synthetic portfolio.
`
}

func (c *benchmarkCmd) SetFlags(f *flag.FlagSet) { c.queryFlags.SetFlags(f) }

func (c *benchmarkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("benchmark expects exactly one benchmark name")
	}
	name := f.Arg(0)
	q, err := c.query()
	if err != nil {
		return usage("Error parsing flags: %v", err)
	}
	svc, store, err := openService()
	if err != nil {
		return fail("Error loading project: %v", err)
	}
	defer store.Close()

	series, err := svc.Benchmark(ctx, name, q)
	if err != nil {
		return fail("Error computing benchmark: %v", err)
	}
	printMarkdown(renderer.SeriesMarkdown(fmt.Sprintf("Benchmark %s", name), series))
	return subcommands.ExitSuccess
}
