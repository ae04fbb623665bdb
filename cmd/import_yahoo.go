package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	portfolio "github.com/matkaise/openfolio-sub000"
)

type importYahooCmd struct {
	isin string
}

func (*importYahooCmd) Name() string     { return "import-yahoo" }
func (*importYahooCmd) Synopsis() string { return "import prices from a Yahoo Finance chart document" }
func (*importYahooCmd) Usage() string {
	return `folio import-yahoo -isin <isin> [<chart.json>]

  Reads a Yahoo Finance chart document (from the file or stdin) and merges its closes and splits
  into the security of the project file. The security is created when missing.
`
}

func (c *importYahooCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.isin, "isin", "", "ISIN of the security receiving the prices.")
}

func (c *importYahooCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.isin == "" {
		return usage("import-yahoo requires -isin")
	}
	var r io.Reader = os.Stdin
	if f.NArg() > 0 {
		file, err := os.Open(f.Arg(0))
		if err != nil {
			return fail("Error opening chart: %v", err)
		}
		defer file.Close()
		r = file
	}
	chart, err := portfolio.DecodeYahooChart(r)
	if err != nil {
		return fail("Error decoding chart: %v", err)
	}

	p, err := portfolio.LoadProject(cfg.Project)
	if os.IsNotExist(err) {
		p, err = &portfolio.Project{}, nil
	}
	if err != nil {
		return fail("Error loading project: %v", err)
	}
	n := chart.Merge(p.Security(c.isin, chart.Currency))
	if err := portfolio.SaveProject(cfg.Project, p); err != nil {
		return fail("Error saving project: %v", err)
	}
	fmt.Printf("%d prices of %s merged into %s\n", n, chart.Symbol, c.isin)
	return subcommands.ExitSuccess
}
