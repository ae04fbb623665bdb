package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/google/subcommands"
	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/renderer"
)

type analysisCmd struct {
	portfolios string
	window     int
	json       bool
}

func (*analysisCmd) Name() string     { return "analysis" }
func (*analysisCmd) Synopsis() string { return "display risk and return metrics" }
func (*analysisCmd) Usage() string {
	return `folio analysis [-p <ids>] [-window <days>] [-json]

  Analyzes the full daily history: total and annualized return, volatility, Sharpe ratio,
  drawdowns and monthly returns.
`
}

func (c *analysisCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolios, "p", "", "Comma separated portfolio ids to include, all by default.")
	f.IntVar(&c.window, "window", 365, "Trailing window in days for volatility and annualized return.")
	f.BoolVar(&c.json, "json", false, "Print the metrics as JSON.")
}

func (c *analysisCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now, err := reportDate()
	if err != nil {
		return usage("Error parsing -now: %v", err)
	}
	svc, store, err := openService()
	if err != nil {
		return fail("Error loading project: %v", err)
	}
	defer store.Close()

	m, err := svc.Analysis(ctx, now, splitList(c.portfolios), portfolio.AnalysisOptions{
		RiskFreeRate: cfg.RiskFreeRate,
		WindowDays:   c.window,
	})
	if err != nil {
		return fail("Error computing analysis: %v", err)
	}
	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return fail("Error encoding analysis: %v", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.AnalysisMarkdown(m))
	return subcommands.ExitSuccess
}
