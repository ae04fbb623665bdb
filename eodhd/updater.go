package eodhd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/date"
)

// Report counts what Update merged into the project.
type Report struct {
	Prices    int
	Splits    int
	Dividends int
	Rates     int
}

// Update fetches the market data of the project between from and to and merges it: the prices,
// splits and dividends of every security, and the rates of every currency against the pivot.
//
// Securities without ticker are resolved by searching their ISIN. A failing security does not
// stop the update, all the failures are returned together.
func Update(ctx context.Context, c *Client, p *portfolio.Project, from, to date.Date) (Report, error) {
	var r Report
	var errs []error
	for i := range p.Securities {
		sec := &p.Securities[i]
		if err := r.updateSecurity(ctx, c, sec, from, to); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sec.ISIN, err))
		}
	}

	pivot := p.Fx.Base
	if pivot == "" {
		pivot = portfolio.DefaultPivot
		p.Fx.Base = pivot
	}
	for _, cur := range currencies(p) {
		if cur == pivot {
			continue
		}
		rates, err := c.Forex(ctx, pivot, cur, from, to)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", pivot, cur, err))
			continue
		}
		if p.Fx.Rates == nil {
			p.Fx.Rates = make(map[string]*date.History[float64])
		}
		h := p.Fx.Rates[cur]
		if h == nil {
			h = new(date.History[float64])
			p.Fx.Rates[cur] = h
		}
		for on, v := range rates.Values() {
			h.Append(on, v)
			r.Rates++
		}
	}
	return r, errors.Join(errs...)
}

func (r *Report) updateSecurity(ctx context.Context, c *Client, sec *portfolio.Security, from, to date.Date) error {
	if sec.Ticker == "" {
		ticker, err := c.findTicker(ctx, sec.ISIN)
		if err != nil {
			return err
		}
		slog.Info("resolved ticker", "isin", sec.ISIN, "ticker", ticker)
		sec.Ticker = ticker
	}

	prices, err := c.Prices(ctx, sec.Ticker, from, to)
	if err != nil {
		return err
	}
	for on, v := range prices.Values() {
		sec.Prices.Append(on, v)
		r.Prices++
	}

	splits, err := c.Splits(ctx, sec.Ticker, from, to)
	if err != nil {
		return err
	}
	for on, v := range splits.Values() {
		sec.Splits.Append(on, v)
		r.Splits++
	}

	dividends, err := c.Dividends(ctx, sec.Ticker, from, to)
	if err != nil {
		return err
	}
	for _, d := range dividends {
		i := slices.IndexFunc(sec.Dividends, func(x portfolio.DividendEvent) bool { return x.Date == d.Date })
		if i >= 0 {
			sec.Dividends[i] = d
			continue
		}
		sec.Dividends = append(sec.Dividends, d)
		r.Dividends++
	}
	slices.SortFunc(sec.Dividends, func(a, b portfolio.DividendEvent) int { return a.Date.Compare(b.Date) })
	return nil
}

// findTicker searches the ISIN and returns the ticker of the first exact match.
func (c *Client) findTicker(ctx context.Context, isin string) (string, error) {
	if isin == "" {
		return "", errors.New("no ticker and no isin")
	}
	results, err := c.Search(ctx, isin)
	if err != nil {
		return "", err
	}
	for _, res := range results {
		if strings.EqualFold(res.ISIN, isin) {
			return res.Ticker(), nil
		}
	}
	return "", fmt.Errorf("no eodhd ticker for isin %s", isin)
}

// currencies returns the sorted currencies used by the project.
func currencies(p *portfolio.Project) []string {
	var out []string
	add := func(cur string) {
		cur = strings.ToUpper(cur)
		if cur != "" && !slices.Contains(out, cur) {
			out = append(out, cur)
		}
	}
	add(p.BaseCurrency)
	for _, s := range p.Securities {
		add(s.Currency)
	}
	for _, a := range p.CashAccounts {
		add(a.Currency)
	}
	for _, tx := range p.Transactions {
		add(tx.Currency)
	}
	for _, b := range p.Benchmarks {
		add(b.Currency)
	}
	slices.Sort(out)
	return out
}
