package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewRange(t *testing.T) {
	testCases := []struct {
		name   string
		in     Date
		period Period
		want   Range
	}{
		{"day", New(2025, time.September, 8), Daily, Range{New(2025, time.September, 8), New(2025, time.September, 8)}},
		{"a wednesday", New(2025, time.September, 10), Weekly, Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{"a sunday", New(2025, time.September, 14), Weekly, Range{New(2025, time.September, 8), New(2025, time.September, 14)}},
		{"leap february", New(2024, time.February, 15), Monthly, Range{New(2024, time.February, 1), New(2024, time.February, 29)}},
		{"Q2", New(2025, time.May, 20), Quarterly, Range{New(2025, time.April, 1), New(2025, time.June, 30)}},
		{"year", New(2025, time.September, 8), Yearly, Range{New(2025, time.January, 1), New(2025, time.December, 31)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewRange(tc.in, tc.period); got != tc.want {
				t.Errorf("NewRange(%v, %v) = %v, want %v", tc.in, tc.period, got, tc.want)
			}
		})
	}
}

func TestRange_Days(t *testing.T) {
	testCases := []struct {
		name string
		in   Range
		want int
	}{
		{"single day", NewRange(New(2025, time.September, 8), Daily), 1},
		{"week", NewRange(New(2025, time.September, 8), Weekly), 7},
		{"leap month", NewRange(New(2024, time.February, 1), Monthly), 29},
		{"leap year", NewRange(New(2024, time.January, 1), Yearly), 366},
		{"reversed", Range{From: New(2025, time.September, 10), To: New(2025, time.September, 2)}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Days(); got != tc.want {
				t.Errorf("Days() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRange_Identifier(t *testing.T) {
	testCases := []struct {
		name string
		in   Range
		want string
	}{
		{"daily", NewRange(New(2025, time.September, 8), Daily), "2025-09-08"},
		{"weekly", NewRange(New(2025, time.September, 8), Weekly), "2025-W37"},
		{"early week", NewRange(New(2025, time.January, 6), Weekly), "2025-W02"},
		{"week across years", NewRange(New(2024, time.December, 31), Weekly), "2025-W01"},
		{"monthly", NewRange(New(2025, time.September, 1), Monthly), "2025-09"},
		{"quarterly", NewRange(New(2025, time.July, 1), Quarterly), "2025-Q3"},
		{"yearly", NewRange(New(2025, time.January, 1), Yearly), "2025"},
		{"custom", Range{From: New(2025, time.September, 2), To: New(2025, time.September, 10)}, "2025-09-02_2025-09-10"},
		{"two years", Range{From: New(2025, time.January, 1), To: New(2026, time.December, 31)}, "2025-01-01_2026-12-31"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Identifier(); got != tc.want {
				t.Errorf("Identifier() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRange_Contains(t *testing.T) {
	r := NewRange(New(2025, time.March, 10), Monthly)
	for _, tc := range []struct {
		on   Date
		want bool
	}{
		{New(2025, time.February, 28), false},
		{New(2025, time.March, 1), true},
		{New(2025, time.March, 31), true},
		{New(2025, time.April, 1), false},
	} {
		if got := r.Contains(tc.on); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.on, got, tc.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	testCases := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"daily", Daily, false},
		{"Weekly", Weekly, false},
		{"month", Monthly, false},
		{"q", Quarterly, false},
		{" year ", Yearly, false},
		{"fortnight", Daily, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePeriod(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParsePeriod(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParsePeriod(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestPeriod_Next(t *testing.T) {
	d := New(2025, time.January, 31)
	testCases := []struct {
		period Period
		want   Date
	}{
		{Daily, New(2025, time.February, 1)},
		{Weekly, New(2025, time.February, 3)},
		{Monthly, New(2025, time.February, 1)},
		{Quarterly, New(2025, time.April, 1)},
		{Yearly, New(2026, time.January, 1)},
	}
	for _, tc := range testCases {
		t.Run(tc.period.String(), func(t *testing.T) {
			if got := tc.period.Next(d); got != tc.want {
				t.Errorf("Next(%v) = %v, want %v", d, got, tc.want)
			}
		})
	}
}

func TestPeriod_JSON(t *testing.T) {
	data, err := json.Marshal(struct{ G Period }{Weekly})
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if got, want := string(data), `{"G":"weekly"}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
	var back struct{ G Period }
	if err := json.Unmarshal([]byte(`{"G":"quarterly"}`), &back); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if back.G != Quarterly {
		t.Errorf("Unmarshal() = %v, want %v", back.G, Quarterly)
	}
	if _, err := json.Marshal(Period(42)); err == nil {
		t.Errorf("Marshal(Period(42)) = nil error, want an error")
	}
}
