package portfolio

import (
	"github.com/matkaise/openfolio-sub000/date"
)

// Converter converts amounts between currencies through the pivot currency of an FxData.
//
// It keeps a cursor per currency, so a sequence of conversions at non decreasing dates costs
// O(1) amortized. A Converter is not safe for concurrent use.
type Converter struct {
	pivot   string
	rates   map[string]*date.History[float64]
	cursors map[string]*date.Cursor[float64]
	diag    *diagnostics
}

// NewConverter returns a Converter over fx.
func NewConverter(fx FxData) *Converter {
	return newConverter(fx, new(diagnostics))
}

func newConverter(fx FxData, diag *diagnostics) *Converter {
	pivot := fx.Base
	if pivot == "" {
		pivot = DefaultPivot
	}
	return &Converter{
		pivot:   pivot,
		rates:   fx.Rates,
		cursors: make(map[string]*date.Cursor[float64]),
		diag:    diag,
	}
}

// Warnings returns the fallbacks applied so far.
func (c *Converter) Warnings() []Warning { return c.diag.warnings() }

// Rate returns the number of units of cur for one unit of pivot, as of the last rate on or
// before 'on'.
//
// A currency without rate table converts at 1. A date before the first rate uses the first rate.
func (c *Converter) Rate(cur string, on date.Date) float64 {
	if cur == c.pivot || cur == "" {
		return 1
	}
	h := c.rates[cur]
	if h.Len() == 0 {
		c.diag.add(MissingFx, cur, on, "no rate table for %s, converting at 1", cur)
		return 1
	}
	cursor, ok := c.cursors[cur]
	if !ok {
		cursor = h.Cursor()
		c.cursors[cur] = cursor
	}
	rate, found := cursor.AsOf(on)
	if !found {
		first, r := h.First()
		c.diag.add(FxBeforeHistory, cur, on, "no %s rate before %s, using the rate of %s", cur, on, first)
		rate = r
	}
	return c.valid(cur, on, rate)
}

// LatestRate returns the most recent rate of cur.
func (c *Converter) LatestRate(cur string) float64 {
	if cur == c.pivot || cur == "" {
		return 1
	}
	h := c.rates[cur]
	if h.Len() == 0 {
		c.diag.add(MissingFx, cur, date.Date{}, "no rate table for %s, converting at 1", cur)
		return 1
	}
	on, rate := h.Latest()
	return c.valid(cur, on, rate)
}

func (c *Converter) valid(cur string, on date.Date, rate float64) float64 {
	if rate <= 0 {
		c.diag.add(InvalidFx, cur, on, "rate %g for %s on %s is not positive, converting at 1", rate, cur, on)
		return 1
	}
	return rate
}

// Convert converts amount from one currency to another using the rates as of 'on'.
func (c *Converter) Convert(amount float64, from, to string, on date.Date) float64 {
	if from == to {
		return amount
	}
	pivot := amount / c.Rate(from, on)
	if to == c.pivot {
		return pivot
	}
	return pivot * c.Rate(to, on)
}

// ConvertLatest converts amount using the most recent rates.
func (c *Converter) ConvertLatest(amount float64, from, to string) float64 {
	if from == to {
		return amount
	}
	pivot := amount / c.LatestRate(from)
	if to == c.pivot {
		return pivot
	}
	return pivot * c.LatestRate(to)
}
