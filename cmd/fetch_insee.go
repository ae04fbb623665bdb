package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/date"
	"github.com/matkaise/openfolio-sub000/insee"
)

type fetchINSEECmd struct {
	id   string
	name string
	from string
}

func (*fetchINSEECmd) Name() string     { return "fetch-insee" }
func (*fetchINSEECmd) Synopsis() string { return "fetch an INSEE index series as a benchmark" }
func (*fetchINSEECmd) Usage() string {
	return `folio fetch-insee [-id <idBank>] [-name <benchmark>] [-from <date>]

  Downloads an INSEE series, the consumer price index by default, and stores it as a benchmark
  of the project. Compare the portfolio with inflation using 'folio benchmark inflation'.
`
}

func (c *fetchINSEECmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", insee.CPI, "idBank of the series.")
	f.StringVar(&c.name, "name", "inflation", "Name of the benchmark.")
	f.StringVar(&c.from, "from", "", "First date to fetch, the first transaction by default.")
}

func (c *fetchINSEECmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	to, err := reportDate()
	if err != nil {
		return usage("Error parsing -now: %v", err)
	}
	p, err := portfolio.LoadProject(cfg.Project)
	if err != nil {
		return fail("Error loading project: %v", err)
	}
	from := to.AddYear(-10)
	if c.from != "" {
		if from, err = date.Parse(c.from); err != nil {
			return usage("Error parsing -from: %v", err)
		}
	} else if in, _ := p.Inputs(); !in.Inception().IsZero() {
		from = in.Inception()
	}

	series, err := insee.NewClient().Series(ctx, c.id, from, to)
	if err != nil {
		return fail("Error fetching series: %v", err)
	}
	b := series.Benchmark(c.name)
	replaced := false
	for i := range p.Benchmarks {
		if strings.EqualFold(p.Benchmarks[i].Name, c.name) {
			p.Benchmarks[i], replaced = b, true
		}
	}
	if !replaced {
		p.Benchmarks = append(p.Benchmarks, b)
	}
	if err := portfolio.SaveProject(cfg.Project, p); err != nil {
		return fail("Error saving project: %v", err)
	}
	fmt.Printf("%d values of %q stored as benchmark %s\n", b.Prices.Len(), series.Libelle, c.name)
	return subcommands.ExitSuccess
}
