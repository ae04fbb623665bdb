package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/cache"
	"github.com/matkaise/openfolio-sub000/date"
	"github.com/matkaise/openfolio-sub000/eodhd"
)

// EnvEODHDKey holds the EODHD API key.
const EnvEODHDKey = "EODHD_API_KEY"

type fetchEODHDCmd struct {
	key  string
	from string
}

func (*fetchEODHDCmd) Name() string     { return "fetch-eodhd" }
func (*fetchEODHDCmd) Synopsis() string { return "fetch prices, splits, dividends and rates from eodhd.com" }
func (*fetchEODHDCmd) Usage() string {
	return `folio fetch-eodhd [-key <api key>] [-from <date>]

  Fetches the market data of every security of the project, and the rates of every currency
  against the pivot, up to the report date. Securities without ticker are searched by ISIN.
`
}

func (c *fetchEODHDCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.key, "key", os.Getenv(EnvEODHDKey), "EODHD API key ($"+EnvEODHDKey+").")
	f.StringVar(&c.from, "from", "", "First date to fetch, the first transaction by default.")
}

func (c *fetchEODHDCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.key == "" {
		return usage("fetch-eodhd requires an API key, use -key or $%s", EnvEODHDKey)
	}
	to, err := reportDate()
	if err != nil {
		return usage("Error parsing -now: %v", err)
	}
	p, err := portfolio.LoadProject(cfg.Project)
	if err != nil {
		return fail("Error loading project: %v", err)
	}

	var from date.Date
	if c.from != "" {
		if from, err = date.Parse(c.from); err != nil {
			return usage("Error parsing -from: %v", err)
		}
	} else if in, _ := p.Inputs(); !in.Inception().IsZero() {
		from = in.Inception()
	}

	store := cache.NewMemory(time.Hour)
	var httpCache cache.Store = store
	if cfg.Cache != "" {
		db, err := cache.OpenSQLite(cfg.Cache)
		if err != nil {
			return fail("Error opening cache: %v", err)
		}
		httpCache = cache.Tiered{store, db}
	}
	defer httpCache.Close()

	report, err := eodhd.Update(ctx, eodhd.NewClient(c.key, httpCache), p, from, to)
	if err != nil {
		// Partial updates are saved anyway.
		fmt.Fprintf(os.Stderr, "Error fetching market data: %v\n", err)
	}
	if err := portfolio.SaveProject(cfg.Project, p); err != nil {
		return fail("Error saving project: %v", err)
	}
	fmt.Printf("%d prices, %d splits, %d dividends and %d rates merged\n", report.Prices, report.Splits, report.Dividends, report.Rates)
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
