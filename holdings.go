package portfolio

import (
	"sort"

	"github.com/matkaise/openfolio-sub000/date"
)

// PriceSource tells where the price of a holding comes from.
type PriceSource string

const (
	QuotePrice   PriceSource = "quote"
	AveragePrice PriceSource = "average-cost"
)

// Holding is the current state of one security.
type Holding struct {
	ISIN     string `json:"isin"`
	Name     string `json:"name"`
	Currency string `json:"currency"`

	Quantity    float64     `json:"quantity"`
	Price       float64     `json:"price"` // in Currency
	PriceSource PriceSource `json:"priceSource"`

	Value            float64 `json:"value"` // in base currency
	InvestedBase     float64 `json:"investedBase"`
	InvestedOriginal float64 `json:"investedOriginal"` // in Currency
	TotalReturn      float64 `json:"totalReturn"`
	TotalReturnPct   Percent `json:"totalReturnPercent"`
	RealizedPnL      float64 `json:"realizedPnL"`
}

// HoldingsReport is the result of ComputeHoldings.
type HoldingsReport struct {
	Base        string    `json:"base"`
	Holdings    []Holding `json:"holdings"`
	Value       float64   `json:"value"`
	Invested    float64   `json:"invested"`
	RealizedPnL float64   `json:"realizedPnL"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// ComputeHoldings replays every security timeline up to its end and values the remaining
// positions with the given quotes (ISIN to price in the security currency).
//
// A position without quote is valued at its average buy price, converted to the security currency.
// RealizedPnL sums the realized gains of all securities, closed positions included.
func ComputeHoldings(in Inputs, quotes map[string]float64) HoldingsReport {
	diag := new(diagnostics)
	base := in.Base()
	conv := newConverter(in.Fx, diag)

	report := HoldingsReport{Base: base}
	for _, tl := range buildTimelines(in, diag) {
		p := position{currency: tl.currency}
		for _, e := range tl.events {
			p.apply(e, conv, base)
		}
		report.RealizedPnL += p.realized
		if p.quantity <= epsilon {
			continue
		}

		h := Holding{
			ISIN:             tl.isin,
			Name:             tl.isin,
			Currency:         tl.currency,
			Quantity:         p.quantity,
			InvestedBase:     p.investedBase,
			InvestedOriginal: p.investedOriginal,
			RealizedPnL:      p.realized,
		}
		if tl.sec != nil && tl.sec.Name != "" {
			h.Name = tl.sec.Name
		}
		if q, ok := quotes[tl.isin]; ok && q > 0 {
			h.Price, h.PriceSource = q, QuotePrice
		} else {
			diag.add(MissingQuote, tl.isin, date.Date{}, "no quote for %s, valued at average cost", tl.isin)
			h.Price, h.PriceSource = p.investedOriginal/p.quantity, AveragePrice
		}
		h.Value = conv.ConvertLatest(h.Quantity*h.Price, tl.currency, base)
		h.TotalReturn = h.Value - h.InvestedBase
		if h.InvestedBase > epsilon {
			h.TotalReturnPct = Percent(h.TotalReturn / h.InvestedBase * 100)
		}

		report.Holdings = append(report.Holdings, h)
		report.Value += h.Value
		report.Invested += h.InvestedBase
	}

	sort.SliceStable(report.Holdings, func(i, j int) bool {
		a, b := report.Holdings[i], report.Holdings[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.ISIN < b.ISIN
	})
	report.Warnings = diag.warnings()
	return report
}
