package portfolio

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/matkaise/openfolio-sub000/date"
)

// RangeKey names a window of history ending now.
type RangeKey string

const (
	OneMonth   RangeKey = "1M"
	SixMonths  RangeKey = "6M"
	YearToDate RangeKey = "YTD"
	OneYear    RangeKey = "1Y"
	ThreeYears RangeKey = "3Y"
	FiveYears  RangeKey = "5Y"
	Max        RangeKey = "MAX"
)

var (
	ErrUnknownRange       = errors.New("unknown range")
	ErrUnknownGranularity = errors.New("unknown granularity")
)

// ParseRangeKey parses a range key. The German year suffix "J" is accepted as an alias of "Y".
func ParseRangeKey(s string) (RangeKey, error) {
	k := strings.ToUpper(strings.TrimSpace(s))
	k = strings.Replace(k, "J", "Y", 1)
	switch RangeKey(k) {
	case OneMonth, SixMonths, YearToDate, OneYear, ThreeYears, FiveYears, Max:
		return RangeKey(k), nil
	case "":
		return Max, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownRange, s)
}

// Start returns the nominal first day of the range ending on now. Max has no start, the zero date is returned.
func (k RangeKey) Start(now date.Date) date.Date {
	switch k {
	case OneMonth:
		return now.AddMonth(-1)
	case SixMonths:
		return now.AddMonth(-6)
	case YearToDate:
		return now.StartOf(date.Yearly)
	case OneYear:
		return now.AddYear(-1)
	case ThreeYears:
		return now.AddYear(-3)
	case FiveYears:
		return now.AddYear(-5)
	default:
		return date.Date{}
	}
}

// ParseGranularity parses the step of a history grid, only daily and weekly are supported.
func ParseGranularity(s string) (date.Period, error) {
	p, err := date.ParsePeriod(s)
	if err != nil || (p != date.Daily && p != date.Weekly) {
		return date.Daily, fmt.Errorf("%w %q", ErrUnknownGranularity, s)
	}
	return p, nil
}

// HistoryOptions parameterize ComputeHistory.
type HistoryOptions struct {
	Range       RangeKey
	Granularity date.Period // date.Daily or date.Weekly
	Now         date.Date   // last day of the grid
}

// Grid returns the dates at which the history is sampled.
//
// The range start is moved forward to the inception when it predates it. A weekly grid has one
// point every 7 days, one on the first day of every month and one on now.
func Grid(inception date.Date, opts HistoryOptions) []date.Date {
	if inception.IsZero() || opts.Now.IsZero() {
		return nil
	}
	start := opts.Range.Start(opts.Now)
	if start.Before(inception) {
		start = inception
	}
	if start.After(opts.Now) {
		return nil
	}
	if opts.Granularity != date.Weekly {
		grid := make([]date.Date, 0, opts.Now.Sub(start)+1)
		for d := range date.Between(start, opts.Now) {
			grid = append(grid, d)
		}
		return grid
	}

	var grid []date.Date
	for d := start; !d.After(opts.Now); d = d.Add(7) {
		grid = append(grid, d)
	}
	for m := date.Monthly.Next(start); !m.After(opts.Now); m = date.Monthly.Next(m) {
		grid = append(grid, m)
	}
	grid = append(grid, opts.Now)
	slices.SortFunc(grid, date.Date.Compare)
	return slices.Compact(grid)
}

// replayedSecurity carries the cursors of one security across grid dates.
type replayedSecurity struct {
	*securityTimeline
	next   int
	pos    position
	prices *date.Cursor[float64]
	splits splitCursor
}

// replay is the state of the history replay, all cursors only move forward.
type replay struct {
	in       Inputs
	base     string
	conv     *Converter
	diag     *diagnostics
	secs     []*replayedSecurity
	txs      []Transaction
	nextTx   int
	explicit bool
	accounts []*date.Cursor[float64]
	ledger   map[string]float64

	invested float64
	dividend float64
}

func newReplay(in Inputs) *replay {
	diag := new(diagnostics)
	r := &replay{
		in:       in,
		base:     in.Base(),
		conv:     newConverter(in.Fx, diag),
		diag:     diag,
		explicit: in.HasExplicitCash(),
		ledger:   make(map[string]float64),
	}
	for _, tl := range buildTimelines(in, diag) {
		s := &replayedSecurity{securityTimeline: tl, pos: position{currency: tl.currency}, splits: splitCursor{tl: tl}}
		if tl.sec != nil {
			s.prices = tl.sec.Prices.Cursor()
		}
		r.secs = append(r.secs, s)
	}
	r.txs = cashOrder(in.Transactions)
	for i := range in.CashAccounts {
		r.accounts = append(r.accounts, in.CashAccounts[i].Balances.Cursor())
	}
	return r
}

// cashOrder sorts the transactions by date, with inflows before outflows on the same date.
func cashOrder(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return !a.Type.IsOutflow() && b.Type.IsOutflow()
	})
	return sorted
}

// advance applies every event on or before 'on' and returns the point at that date.
func (r *replay) advance(on date.Date) HistoryPoint {
	for ; r.nextTx < len(r.txs) && !r.txs[r.nextTx].Date.After(on); r.nextTx++ {
		r.applyCash(r.txs[r.nextTx])
	}

	var value float64
	for _, s := range r.secs {
		for ; s.next < len(s.events) && !s.events[s.next].on.After(on); s.next++ {
			s.pos.apply(s.events[s.next], r.conv, r.base)
		}
		factor := s.splits.factorAfter(on)
		if s.pos.quantity <= epsilon {
			continue
		}
		value += r.marketValue(s, on, factor)
	}
	value += r.cash(on)
	return HistoryPoint{Date: on, Value: value, Invested: r.invested, Dividend: r.dividend}
}

// marketValue values a position with the point in time price, that is the back-adjusted price
// multiplied by the ratios of the splits that happen after 'on'.
func (r *replay) marketValue(s *replayedSecurity, on date.Date, factor float64) float64 {
	if s.prices == nil || s.sec.Prices.Len() == 0 {
		r.diag.add(MissingPrice, s.isin, on, "no price history for %s, valued at cost", s.isin)
		return s.pos.investedBase
	}
	price, ok := s.prices.AsOf(on)
	if !ok {
		first, p := s.sec.Prices.First()
		r.diag.add(PriceBefore, s.isin, on, "no %s price before %s, using the price of %s", s.isin, on, first)
		price = p
	}
	return r.conv.Convert(s.pos.quantity*price*factor, s.currency, r.base, on)
}

// applyCash folds the cash effect of a transaction into the running totals.
func (r *replay) applyCash(tx Transaction) {
	if tx.Type == Dividend {
		r.dividend += r.conv.Convert(tx.Amount, tx.Currency, r.base, tx.Date)
	}
	if r.explicit {
		if tx.Type.IsExternal() {
			r.invested += r.conv.Convert(tx.Amount, tx.Currency, r.base, tx.Date)
		}
		return
	}
	if tx.Type == Split {
		return
	}

	balance := r.ledger[tx.Currency] + tx.Amount
	if balance < 0 {
		// Implicit funding of the shortfall.
		r.invested += r.conv.Convert(-balance, tx.Currency, r.base, tx.Date)
		balance = 0
	}
	r.ledger[tx.Currency] = balance
	if tx.Type.IsExternal() {
		r.invested += r.conv.Convert(tx.Amount, tx.Currency, r.base, tx.Date)
	}
}

// cash returns the value of the cash at a date, in base currency.
func (r *replay) cash(on date.Date) float64 {
	var total float64
	if r.explicit {
		for i, c := range r.accounts {
			if balance, ok := c.AsOf(on); ok {
				total += r.conv.Convert(balance, r.in.CashAccounts[i].Currency, r.base, on)
			}
		}
		return total
	}
	// Sorted to keep the float sum reproducible.
	for _, cur := range slices.Sorted(maps.Keys(r.ledger)) {
		total += r.conv.Convert(r.ledger[cur], cur, r.base, on)
	}
	return total
}

// ComputeHistory replays the inputs over the date grid and returns the value, invested capital and
// cumulative dividends at every grid date, together with the fallbacks that were applied.
//
// All event timelines are walked once, so the cost is linear in the number of dates and events.
func ComputeHistory(in Inputs, opts HistoryOptions) ([]HistoryPoint, []Warning) {
	grid := Grid(in.Inception(), opts)
	if len(grid) == 0 {
		return nil, nil
	}
	r := newReplay(in)
	points := make([]HistoryPoint, 0, len(grid))
	for _, on := range grid {
		points = append(points, r.advance(on))
	}
	return points, r.diag.warnings()
}
