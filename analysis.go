package portfolio

import (
	"math"
	"slices"

	"github.com/matkaise/openfolio-sub000/date"
)

// AnalysisOptions parameterize Analyze.
type AnalysisOptions struct {
	RiskFreeRate float64 // annual, as a fraction (0.02 for 2%)
	WindowDays   int     // trailing window of the risk metrics, 365 when zero
}

// AnalysisMetrics are the risk and return figures of a full history.
type AnalysisMetrics struct {
	MonthlyReturns   map[string]Percent `json:"monthlyReturns"` // keyed by "YYYY-MM"
	AvailableYears   []int              `json:"availableYears"`
	TotalReturn      Percent            `json:"totalReturn"`
	AnnualizedReturn Percent            `json:"annualizedReturn"`
	Volatility       Percent            `json:"volatility"`
	SharpeRatio      float64            `json:"sharpeRatio"`
	MaxDrawdown      Percent            `json:"maxDrawdown"`
	MaxDrawdownDate  date.Date          `json:"maxDrawdownDate"`
	DrawdownHistory  []SeriesPoint      `json:"drawdownHistory"`
}

// Analyze derives the analysis metrics from the time weighted index of the full history.
//
// The index is rebased on the invested capital of the first point, as CalculateTWRSeries does for
// a range starting at inception.
func Analyze(points []HistoryPoint, opts AnalysisOptions) AnalysisMetrics {
	m := AnalysisMetrics{MonthlyReturns: make(map[string]Percent)}
	if len(points) == 0 {
		return m
	}
	window := opts.WindowDays
	if window <= 0 {
		window = 365
	}
	index := twrIndex(points, true, false)

	m.TotalReturn = Percent((index[len(index)-1] - 1) * 100)
	m.MonthlyReturns, m.AvailableYears = monthlyReturns(points, index)

	// Trailing window, or the full series when the window holds less than two points.
	last := points[len(points)-1].Date
	from := last.Add(-window)
	ws := 0
	for ws < len(points) && points[ws].Date.Before(from) {
		ws++
	}
	if len(points)-ws < 2 {
		ws = 0
	}
	returns := make([]float64, 0, len(points)-ws)
	for i := ws + 1; i < len(points); i++ {
		if index[i-1] > 0 {
			returns = append(returns, index[i]/index[i-1]-1)
		}
	}
	vol := stddev(returns) * math.Sqrt(365)
	m.Volatility = Percent(vol * 100)

	var annualized float64
	years := float64(last.Sub(points[ws].Date)) / 365
	if years > 0 && index[ws] > 0 && index[len(index)-1] > 0 {
		annualized = math.Pow(index[len(index)-1]/index[ws], 1/years) - 1
	}
	m.AnnualizedReturn = Percent(annualized * 100)
	if vol > 0 {
		m.SharpeRatio = (annualized - opts.RiskFreeRate) / vol
	}

	m.DrawdownHistory, m.MaxDrawdown, m.MaxDrawdownDate = drawdowns(points, index)
	return m
}

// monthlyReturns chains the index from the close of the previous month to the close of each month.
// The first month starts from the baseline 1.
func monthlyReturns(points []HistoryPoint, index []float64) (map[string]Percent, []int) {
	returns := make(map[string]Percent)
	var years []int
	start := 1.0
	for i, p := range points {
		month := date.NewRange(p.Date, date.Monthly)
		if i+1 < len(points) && month.Contains(points[i+1].Date) {
			continue
		}
		// p closes its month.
		if start > 0 {
			returns[month.Identifier()] = Percent((index[i]/start - 1) * 100)
			if !slices.Contains(years, p.Date.Year()) {
				years = append(years, p.Date.Year())
			}
		}
		start = index[i]
	}
	slices.Sort(years)
	slices.Reverse(years)
	return returns, years
}

// drawdowns walks the index with its running peak. Drawdowns are negative percentages.
func drawdowns(points []HistoryPoint, index []float64) (history []SeriesPoint, worst Percent, on date.Date) {
	history = make([]SeriesPoint, len(points))
	peak := index[0]
	on = points[0].Date
	for i, p := range points {
		peak = math.Max(peak, index[i])
		var dd float64
		if peak > 0 {
			dd = (index[i] - peak) / peak * 100
		}
		history[i] = SeriesPoint{Date: p.Date, Value: Percent(dd)}
		if Percent(dd) < worst {
			worst, on = Percent(dd), p.Date
		}
	}
	return history, worst, on
}

// stddev returns the sample standard deviation, 0 with less than two values.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
