package portfolio

import (
	"math"

	"github.com/matkaise/openfolio-sub000/date"
)

// ReturnOptions select the sub range of a return series and its rebasing rules.
type ReturnOptions struct {
	From, To date.Date // zero means unbounded

	// Inception is the date of the first transaction. When the range starts there (within one day),
	// the series is rebased on the invested capital so that the gain of the first valuation shows.
	Inception date.Date
	// FullRange requests the same rebasing regardless of Inception.
	FullRange bool
	// IncludeDividends counts the dividends paid during a period as part of its end value.
	IncludeDividends bool
}

// window returns the points within [From, To].
func (o ReturnOptions) window(points []HistoryPoint) []HistoryPoint {
	lo, hi := 0, len(points)
	for lo < hi && !o.From.IsZero() && points[lo].Date.Before(o.From) {
		lo++
	}
	for hi > lo && !o.To.IsZero() && points[hi-1].Date.After(o.To) {
		hi--
	}
	return points[lo:hi]
}

// rebased reports whether a series starting with first is rebased on its invested capital.
func (o ReturnOptions) rebased(first HistoryPoint) bool {
	if first.Invested <= 0 {
		return false
	}
	if o.FullRange {
		return true
	}
	if o.Inception.IsZero() {
		return false
	}
	return math.Abs(float64(first.Date.Sub(o.Inception))) <= 1
}

// twrIndex returns the chained time weighted index at every point.
func twrIndex(points []HistoryPoint, seed, dividends bool) []float64 {
	if len(points) == 0 {
		return nil
	}
	index := make([]float64, len(points))
	index[0] = 1
	if seed && points[0].Invested > 0 {
		index[0] = points[0].Value / points[0].Invested
	}
	for t := 1; t < len(points); t++ {
		prev, cur := points[t-1], points[t]
		cashFlow := cur.Invested - prev.Invested
		denominator := prev.Value + cashFlow
		end := cur.Value
		if dividends {
			end += cur.Dividend - prev.Dividend
		}
		var periodReturn float64
		if denominator != 0 {
			periodReturn = (end - denominator) / denominator
		}
		if math.IsNaN(periodReturn) || math.IsInf(periodReturn, 0) {
			periodReturn = 0
		}
		index[t] = index[t-1] * (1 + periodReturn)
	}
	return index
}

// CalculateTWRSeries returns the cumulative time weighted return, in percent, at every point of the range.
//
// Cash flows are assumed to happen at the start of each period.
func CalculateTWRSeries(points []HistoryPoint, opts ReturnOptions) []SeriesPoint {
	pts := opts.window(points)
	if len(pts) == 0 {
		return []SeriesPoint{}
	}
	index := twrIndex(pts, opts.rebased(pts[0]), opts.IncludeDividends)
	series := make([]SeriesPoint, len(pts))
	for i, p := range pts {
		series[i] = SeriesPoint{Date: p.Date, Value: Percent((index[i] - 1) * 100)}
	}
	return series
}

// BuildMWRSeries returns the money weighted return, in percent, at every point of the range: the
// gain over the capital at work, which is the start value plus the net contributions since.
func BuildMWRSeries(points []HistoryPoint, opts ReturnOptions) []SeriesPoint {
	pts := opts.window(points)
	if len(pts) == 0 {
		return []SeriesPoint{}
	}
	startValue, startInvested := pts[0].Value, pts[0].Invested
	if opts.rebased(pts[0]) {
		startValue = startInvested
	}
	series := make([]SeriesPoint, len(pts))
	for i, p := range pts {
		deltaInvested := p.Invested - startInvested
		capitalAtWork := startValue + deltaInvested
		var pct float64
		if capitalAtWork > 0 {
			pct = ((p.Value - startValue) - deltaInvested) / capitalAtWork * 100
		}
		series[i] = SeriesPoint{Date: p.Date, Value: Percent(pct)}
	}
	return series
}
