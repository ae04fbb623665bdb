package portfolio

import (
	"github.com/matkaise/openfolio-sub000/date"
)

// Benchmark is an external instrument the portfolio is compared against.
type Benchmark struct {
	Name     string                `json:"name"`
	Currency string                `json:"currency"`
	Prices   date.History[float64] `json:"priceHistory"`
}

// SynthesizeBenchmark invests the portfolio's own cash flows into the benchmark.
//
// Each point's net contribution buys benchmark shares at the price as of that date, or sells some
// for a withdrawal. Until the benchmark has a price, contributions wait as cash which is part of the
// synthetic value. Prices are converted to the base currency with conv.
func SynthesizeBenchmark(b *Benchmark, points []HistoryPoint, conv *Converter, base string) []HistoryPoint {
	out := make([]HistoryPoint, 0, len(points))
	prices := b.Prices.Cursor()
	var shares, pending, previous, lastPrice float64
	for _, p := range points {
		flow := p.Invested - previous
		previous = p.Invested
		pending += flow

		if price, ok := prices.AsOf(p.Date); ok && price > 0 {
			lastPrice = conv.Convert(price, b.Currency, base, p.Date)
		}
		if lastPrice > 0 && pending != 0 {
			shares += pending / lastPrice
			pending = 0
			if shares < 0 {
				shares = 0
			}
		}
		out = append(out, HistoryPoint{Date: p.Date, Value: shares*lastPrice + pending, Invested: p.Invested})
	}
	return out
}

// BenchmarkMWR returns the money weighted return the portfolio's cash flows would have earned in
// the benchmark.
func BenchmarkMWR(b *Benchmark, points []HistoryPoint, in Inputs, opts ReturnOptions) ([]SeriesPoint, []Warning) {
	conv := NewConverter(in.Fx)
	synthetic := SynthesizeBenchmark(b, points, conv, in.Base())
	return BuildMWRSeries(synthetic, opts), conv.Warnings()
}
