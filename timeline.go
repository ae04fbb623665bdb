package portfolio

import (
	"math"
	"slices"
	"sort"

	"github.com/matkaise/openfolio-sub000/date"
)

// split is a valid split event of a security.
type split struct {
	on    date.Date
	ratio float64
}

// event is one step in the timeline of a security: either a split or a trade.
type event struct {
	on    date.Date
	split *split
	tx    *Transaction
}

// securityTimeline is the chronological replay material of one security.
type securityTimeline struct {
	isin     string
	currency string
	sec      *Security // nil for a security only known from transactions
	events   []event
	splits   []split
	// after[i] is the product of the ratios of splits[i:].
	after []float64
}

// buildTimelines merges each security's split history with its trades into one timeline.
//
// Split transactions complete the split history unless a split is already listed on that date.
// On a given date, splits come before trades. Securities without trades are skipped.
func buildTimelines(in Inputs, diag *diagnostics) []*securityTimeline {
	byISIN := make(map[string]*securityTimeline)
	var order []string
	get := func(isin, cur string) *securityTimeline {
		tl, ok := byISIN[isin]
		if !ok {
			tl = &securityTimeline{isin: isin, currency: cur, sec: in.Security(isin)}
			if tl.sec != nil && tl.sec.Currency != "" {
				tl.currency = tl.sec.Currency
			}
			byISIN[isin] = tl
			order = append(order, isin)
		}
		return tl
	}

	var splitTxs []*Transaction
	for i := range in.Transactions {
		tx := &in.Transactions[i]
		if tx.ISIN == "" {
			continue
		}
		switch tx.Type {
		case Buy, Sell:
			tl := get(tx.ISIN, tx.Currency)
			tl.events = append(tl.events, event{on: tx.Date, tx: tx})
		case Split:
			splitTxs = append(splitTxs, tx)
		}
	}

	for _, isin := range order {
		tl := byISIN[isin]
		if tl.sec == nil {
			diag.add(UnknownSecurity, isin, date.Date{}, "security %s is traded but not listed", isin)
		} else {
			for on, ratio := range tl.sec.Splits.Values() {
				tl.addSplit(on, ratio, diag)
			}
		}
	}
	for _, tx := range splitTxs {
		tl, ok := byISIN[tx.ISIN]
		if !ok || slices.ContainsFunc(tl.splits, func(s split) bool { return s.on == tx.Date }) {
			continue
		}
		tl.addSplit(tx.Date, tx.Shares, diag)
	}

	timelines := make([]*securityTimeline, 0, len(order))
	for _, isin := range order {
		tl := byISIN[isin]
		tl.seal()
		timelines = append(timelines, tl)
	}
	return timelines
}

func (tl *securityTimeline) addSplit(on date.Date, ratio float64, diag *diagnostics) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		diag.add(InvalidSplit, tl.isin, on, "split ratio %g on %s ignored", ratio, on)
		return
	}
	tl.splits = append(tl.splits, split{on: on, ratio: ratio})
}

// seal sorts the splits and the events and precomputes the split factors.
func (tl *securityTimeline) seal() {
	sort.SliceStable(tl.splits, func(i, j int) bool { return tl.splits[i].on.Before(tl.splits[j].on) })
	for i := range tl.splits {
		tl.events = append(tl.events, event{on: tl.splits[i].on, split: &tl.splits[i]})
	}
	sort.SliceStable(tl.events, func(i, j int) bool {
		a, b := tl.events[i], tl.events[j]
		if a.on != b.on {
			return a.on.Before(b.on)
		}
		return a.split != nil && b.split == nil
	})
	tl.after = make([]float64, len(tl.splits)+1)
	tl.after[len(tl.splits)] = 1
	for i := len(tl.splits) - 1; i >= 0; i-- {
		tl.after[i] = tl.after[i+1] * tl.splits[i].ratio
	}
}

// splitCursor returns the product of the ratios of the splits strictly after a date, for non
// decreasing dates.
type splitCursor struct {
	tl   *securityTimeline
	next int
}

func (c *splitCursor) factorAfter(on date.Date) float64 {
	for c.next < len(c.tl.splits) && !c.tl.splits[c.next].on.After(on) {
		c.next++
	}
	return c.tl.after[c.next]
}

// position is the running state of a security while replaying its timeline.
type position struct {
	quantity         float64
	investedBase     float64
	investedOriginal float64 // in currency
	currency         string
	realized         float64
}

// apply replays one event into the position.
func (p *position) apply(e event, conv *Converter, base string) {
	if e.split != nil {
		if p.quantity > 0 {
			p.quantity *= e.split.ratio
		}
		return
	}
	tx := e.tx
	shares := math.Abs(tx.Shares)
	amount := math.Abs(tx.Amount)
	switch tx.Type {
	case Buy:
		p.quantity += shares
		p.investedBase += conv.Convert(amount, tx.Currency, base, tx.Date)
		p.investedOriginal += conv.Convert(amount, tx.Currency, p.currency, tx.Date)
	case Sell:
		var avgBase, avgOriginal float64
		if p.quantity > 0 {
			avgBase = p.investedBase / p.quantity
			avgOriginal = p.investedOriginal / p.quantity
		}
		costBasis := shares * avgBase
		p.realized += conv.Convert(amount, tx.Currency, base, tx.Date) - costBasis
		p.investedBase -= costBasis
		p.investedOriginal -= shares * avgOriginal
		p.quantity -= shares
		if p.quantity < epsilon {
			p.quantity = 0
			p.investedBase = 0
			p.investedOriginal = 0
		}
	}
}
