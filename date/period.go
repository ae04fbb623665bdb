package date

import (
	"fmt"
	"strings"
)

// Period is a calendar period: a day, a week starting on Monday, a month, a quarter or a year.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periods lists the periods from the shortest to the longest, with their accepted names.
var periods = []struct {
	p     Period
	names []string // first one is canonical
}{
	{Daily, []string{"daily", "day", "d"}},
	{Weekly, []string{"weekly", "week", "w"}},
	{Monthly, []string{"monthly", "month", "m"}},
	{Quarterly, []string{"quarterly", "quarter", "q"}},
	{Yearly, []string{"yearly", "year", "y"}},
}

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("period(%d)", int(p))
	}
	return periods[p].names[0]
}

// ParsePeriod parses a period name, case insensitive.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, x := range periods {
		for _, name := range x.names {
			if s == name {
				return x.p, nil
			}
		}
	}
	return Daily, fmt.Errorf("unknown period %q", s)
}

// Next returns the first day of the period following the one containing d.
func (p Period) Next(d Date) Date { return d.EndOf(p).Add(1) }

func (p Period) MarshalText() ([]byte, error) {
	if p < Daily || p > Yearly {
		return nil, fmt.Errorf("unknown period %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(text []byte) (err error) {
	*p, err = ParsePeriod(string(text))
	return err
}
