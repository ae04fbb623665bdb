// Package cmd implements the CLI application to value a portfolio and report its performance.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/cache"
	"github.com/matkaise/openfolio-sub000/date"
	"github.com/matkaise/openfolio-sub000/service"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var cfg = &Config{}

// commands lists every registered subcommand, for shell completion.
var commands []subcommands.Command

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
// The global flags of config must be declared on the commander's top level flag set.
func Register(c *subcommands.Commander, config *Config) {
	cfg = config

	register(c, "reports", &historyCmd{}, &holdingsCmd{}, &returnsCmd{}, &analysisCmd{}, &benchmarkCmd{})
	register(c, "data", &importYahooCmd{}, &fetchEODHDCmd{}, &fetchINSEECmd{})
	register(c, "server", &serveCmd{})
	register(c, "help", &topicCmd{})
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
}

func register(c *subcommands.Commander, group string, cmds ...subcommands.Command) {
	for _, cmd := range cmds {
		c.Register(cmd, group)
		commands = append(commands, cmd)
	}
}

// reportDate returns the date reports are computed on.
func reportDate() (date.Date, error) {
	if cfg.Now == "" {
		return date.Today(), nil
	}
	return date.Parse(cfg.Now)
}

// loadInputs loads the project file and normalizes it into engine inputs. Invalid transactions
// are logged and skipped.
func loadInputs() (portfolio.Inputs, error) {
	p, err := portfolio.LoadProject(cfg.Project)
	if err != nil {
		return portfolio.Inputs{}, err
	}
	in, err := p.Inputs()
	if err != nil {
		slog.Warn("skipping invalid transactions", "project", cfg.Project, "err", err)
	}
	if cfg.BaseCurrency != "" {
		in.BaseCurrency = cfg.BaseCurrency
	}
	return in, nil
}

// openService loads the inputs and opens the cache. The returned store must be closed.
func openService() (*service.Service, cache.Store, error) {
	in, err := loadInputs()
	if err != nil {
		return nil, nil, err
	}
	var store cache.Store = cache.NewMemory(10 * time.Minute)
	if cfg.Cache != "" {
		db, err := cache.OpenSQLite(cfg.Cache)
		if err != nil {
			return nil, nil, err
		}
		if n, err := db.Prune(context.Background(), 30*24*time.Hour); err == nil && n > 0 {
			slog.Debug("pruned cache", "entries", n)
		}
		store = cache.Tiered{store, db}
	}
	svc, err := service.New(in, store, slog.Default())
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return svc, store, nil
}

// queryFlags are the flags selecting a history.
type queryFlags struct {
	rng         string
	granularity string
	portfolios  string
}

func (q *queryFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&q.rng, "r", "MAX", "Range of the history (1M, 6M, YTD, 1Y, 3Y, 5Y, MAX).")
	f.StringVar(&q.granularity, "g", "weekly", "Granularity of the history (daily, weekly).")
	f.StringVar(&q.portfolios, "p", "", "Comma separated portfolio ids to include, all by default.")
}

func (q *queryFlags) query() (service.Query, error) {
	rng, err := portfolio.ParseRangeKey(q.rng)
	if err != nil {
		return service.Query{}, err
	}
	g, err := portfolio.ParseGranularity(q.granularity)
	if err != nil {
		return service.Query{}, err
	}
	now, err := reportDate()
	if err != nil {
		return service.Query{}, err
	}
	return service.Query{Range: rng, Granularity: g, Now: now, Portfolios: splitList(q.portfolios)}, nil
}

// splitList splits a comma separated list, ignoring empty items.
func splitList(s string) []string {
	var out []string
	for _, x := range strings.Split(s, ",") {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	return out
}

// fail prints the error and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}

// usage prints the error and returns the usage error status.
func usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitUsageError
}
