package date

import "fmt"

// Range is an interval of days, both boundaries included.
type Range struct{ From, To Date }

// NewRange returns the period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains reports whether on is in the range.
func (r Range) Contains(on Date) bool { return !on.Before(r.From) && !on.After(r.To) }

// Days returns the number of days in the range.
func (r Range) Days() int {
	if r.To.Before(r.From) {
		return 0
	}
	return r.To.Sub(r.From) + 1
}

// Period returns the calendar period the range covers exactly, if any.
func (r Range) Period() (Period, bool) {
	for _, x := range periods {
		if NewRange(r.From, x.p) == r {
			return x.p, true
		}
	}
	return Daily, false
}

// Identifier returns a short unique name of the range: "2025-09-08", "2025-W37", "2025-09",
// "2025-Q3", "2025", or "2025-09-02_2025-09-10" for any other range.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}
	switch p {
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		return r.From.String()
	}
}
