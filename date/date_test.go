package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestAddMonth(t *testing.T) {
	testCases := []struct {
		name string
		in   Date
		n    int
		want Date
	}{
		{"plain", New(2025, time.March, 15), -1, New(2025, time.February, 15)},
		{"clamped to leap day", New(2024, time.March, 31), -1, New(2024, time.February, 29)},
		{"across year", New(2025, time.January, 31), -6, New(2024, time.July, 31)},
		{"forward", New(2025, time.August, 31), 1, New(2025, time.September, 30)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.AddMonth(tc.n); got != tc.want {
				t.Errorf("AddMonth(%d) = %v, want %v", tc.n, got, tc.want)
			}
		})
	}
}

func TestAddYear(t *testing.T) {
	if got, want := New(2024, time.February, 29).AddYear(-1), New(2023, time.February, 28); got != want {
		t.Errorf("AddYear(-1) = %v, want %v", got, want)
	}
}

func TestSubAndCompare(t *testing.T) {
	a, b := New(2024, time.December, 30), New(2025, time.January, 2)
	if got, want := b.Sub(a), 3; got != want {
		t.Errorf("Sub() = %d, want %d", got, want)
	}
	if !a.Before(b) || b.Before(a) || !b.After(a) {
		t.Errorf("Before/After inconsistent for %v and %v", a, b)
	}
	if got := a.Compare(a); got != 0 {
		t.Errorf("Compare(self) = %d, want 0", got)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if want := New(2025, time.July, 1); got != want {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
	if _, err := Parse("01/07/2025"); err == nil {
		t.Errorf("Parse(01/07/2025) expected an error")
	}
}

func TestBetween(t *testing.T) {
	var got []Date
	for d := range Between(New(2025, time.February, 27), New(2025, time.March, 2)) {
		got = append(got, d)
	}
	if len(got) != 4 {
		t.Fatalf("Between() yielded %d days, want 4", len(got))
	}
	if got[2] != New(2025, time.March, 1) {
		t.Errorf("Between()[2] = %v, want 2025-03-01", got[2])
	}
}
