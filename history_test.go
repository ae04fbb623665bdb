package portfolio

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/matkaise/openfolio-sub000/date"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func daily(now string) HistoryOptions {
	return HistoryOptions{Range: Max, Granularity: date.Daily, Now: d(now)}
}

func TestParseRangeKey(t *testing.T) {
	testCases := []struct {
		in      string
		want    RangeKey
		wantErr error
	}{
		{"1M", OneMonth, nil},
		{"ytd", YearToDate, nil},
		{"1J", OneYear, nil},
		{"3j", ThreeYears, nil},
		{"5Y", FiveYears, nil},
		{"", Max, nil},
		{"2W", "", ErrUnknownRange},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRangeKey(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ParseRangeKey(%q) error = %v, want %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseRangeKey(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestGrid(t *testing.T) {
	testCases := []struct {
		name      string
		inception string
		opts      HistoryOptions
		want      []string
	}{
		{
			name:      "daily max starts at inception",
			inception: "2025-03-29",
			opts:      daily("2025-04-01"),
			want:      []string{"2025-03-29", "2025-03-30", "2025-03-31", "2025-04-01"},
		},
		{
			name:      "range start clamped forward to inception",
			inception: "2025-03-30",
			opts:      HistoryOptions{Range: OneYear, Granularity: date.Daily, Now: d("2025-03-31")},
			want:      []string{"2025-03-30", "2025-03-31"},
		},
		{
			name:      "one month range",
			inception: "2020-01-01",
			opts:      HistoryOptions{Range: OneMonth, Granularity: date.Daily, Now: d("2025-03-03")},
			want:      nil, // checked by length below
		},
		{
			name:      "weekly with month boundaries and now",
			inception: "2025-01-20",
			opts:      HistoryOptions{Range: Max, Granularity: date.Weekly, Now: d("2025-02-12")},
			want:      []string{"2025-01-20", "2025-01-27", "2025-02-01", "2025-02-03", "2025-02-10", "2025-02-12"},
		},
		{
			name:      "inception after now",
			inception: "2025-05-01",
			opts:      daily("2025-04-01"),
			want:      []string{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			grid := Grid(d(tc.inception), tc.opts)
			if tc.want == nil {
				if got, want := len(grid), 29; got != want {
					t.Errorf("len(Grid()) = %d, want %d", got, want)
				}
				return
			}
			got := make([]string, len(grid))
			for i, g := range grid {
				got[i] = g.String()
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Grid() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// rebalancing returns two securities priced flat at 100 and 50.
func rebalancing() []Security {
	return []Security{
		{ISIN: "A", Currency: "EUR", Prices: series("2025-01-01", 100)},
		{ISIN: "B", Currency: "EUR", Prices: series("2025-01-01", 50)},
	}
}

func TestComputeHistory_ImplicitRebalancing(t *testing.T) {
	testCases := []struct {
		name string
		txs  []Transaction
	}{
		{
			name: "sell and buy on the same day",
			txs: []Transaction{
				buy("2025-01-01", "A", 10, 1000),
				// Recorded buy first, inflows still apply first.
				buy("2025-01-02", "B", 20, 1000),
				sell("2025-01-02", "A", 10, 1000),
			},
		},
		{
			name: "buy one day after the sell",
			txs: []Transaction{
				buy("2025-01-01", "A", 10, 1000),
				sell("2025-01-02", "A", 10, 1000),
				buy("2025-01-03", "B", 20, 1000),
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := Inputs{Securities: rebalancing(), Transactions: tc.txs}
			points, _ := ComputeHistory(in, daily("2025-01-03"))
			if diff := cmp.Diff([]float64{1000, 1000, 1000}, values(points)); diff != "" {
				t.Errorf("ComputeHistory() values mismatch (-want +got):\n%s", diff)
			}
			for _, p := range points {
				if p.Invested != 1000 {
					t.Errorf("ComputeHistory() invested on %s = %v, want 1000", p.Date, p.Invested)
				}
			}
		})
	}
}

func TestComputeHistory_ImplicitCashFlows(t *testing.T) {
	in := Inputs{
		Securities: rebalancing(),
		Transactions: []Transaction{
			deposit("2025-01-01", 500),
			buy("2025-01-01", "A", 10, 1000),
			tx("2025-01-02", Dividend, "A", 0, 20, "EUR"),
			tx("2025-01-03", Withdrawal, "", 0, -100, "EUR"),
		},
	}
	points, _ := ComputeHistory(in, daily("2025-01-03"))
	want := []HistoryPoint{
		{Date: d("2025-01-01"), Value: 1000, Invested: 1000},
		{Date: d("2025-01-02"), Value: 1020, Invested: 1000, Dividend: 20},
		// 20 of cash left, the 80 shortfall is funded before being withdrawn.
		{Date: d("2025-01-03"), Value: 1000, Invested: 980, Dividend: 20},
	}
	if diff := cmp.Diff(want, points, approx); diff != "" {
		t.Errorf("ComputeHistory() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeHistory_PointInTimePrice(t *testing.T) {
	in := Inputs{
		Securities: []Security{{
			ISIN:     "S",
			Currency: "EUR",
			// Back-adjusted: the real close before the split was 100.
			Prices: series("2025-01-01", 50, "2025-01-03", 55),
			Splits: series("2025-01-02", 2),
		}},
		Transactions: []Transaction{buy("2025-01-01", "S", 10, 1000)},
	}
	points, _ := ComputeHistory(in, daily("2025-01-03"))
	if diff := cmp.Diff([]float64{1000, 1000, 1100}, values(points), approx); diff != "" {
		t.Errorf("ComputeHistory() values mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeHistory_Currency(t *testing.T) {
	in := Inputs{
		Fx:           usdRates(),
		Securities:   []Security{{ISIN: "U", Currency: "USD", Prices: series("2025-01-31", 121)}},
		Transactions: []Transaction{tx("2025-01-31", Buy, "U", 10, -1100, "USD")},
	}
	points, ws := ComputeHistory(in, daily("2025-02-01"))
	want := []HistoryPoint{
		{Date: d("2025-01-31"), Value: 1100, Invested: 1000},
		{Date: d("2025-02-01"), Value: 1000, Invested: 1000},
	}
	if diff := cmp.Diff(want, points, approx); diff != "" {
		t.Errorf("ComputeHistory() mismatch (-want +got):\n%s", diff)
	}
	if len(ws) != 0 {
		t.Errorf("ComputeHistory() warnings = %v, want none", ws)
	}
}

func TestComputeHistory_ExplicitCash(t *testing.T) {
	in := Inputs{
		Securities: rebalancing(),
		CashAccounts: []CashAccount{
			{ID: "broker", Currency: "EUR", Balances: series("2025-01-01", 500, "2025-01-02", 520)},
		},
		Transactions: []Transaction{
			deposit("2025-01-01", 1000),
			buy("2025-01-01", "A", 5, 500),
			tx("2025-01-02", Dividend, "A", 0, 20, "EUR"),
		},
	}
	points, _ := ComputeHistory(in, daily("2025-01-02"))
	want := []HistoryPoint{
		{Date: d("2025-01-01"), Value: 1000, Invested: 1000},
		{Date: d("2025-01-02"), Value: 1020, Invested: 1000, Dividend: 20},
	}
	if diff := cmp.Diff(want, points, approx); diff != "" {
		t.Errorf("ComputeHistory() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeHistory_MissingPrices(t *testing.T) {
	in := Inputs{
		Securities: []Security{
			{ISIN: "LATE", Currency: "EUR", Prices: series("2025-01-02", 110)},
			{ISIN: "NONE", Currency: "EUR"},
		},
		Transactions: []Transaction{buy("2025-01-01", "LATE", 1, 100), buy("2025-01-01", "NONE", 1, 100)},
	}
	points, ws := ComputeHistory(in, daily("2025-01-02"))
	if diff := cmp.Diff([]float64{210, 210}, values(points), approx); diff != "" {
		t.Errorf("ComputeHistory() values mismatch (-want +got):\n%s", diff)
	}
	if !hasWarning(ws, PriceBefore, "LATE") || !hasWarning(ws, MissingPrice, "NONE") {
		t.Errorf("ComputeHistory() warnings = %v, want price-before-history and missing-price", ws)
	}
}

func TestComputeHistory_RangeReplaysEarlierEvents(t *testing.T) {
	in := Inputs{
		Securities:   rebalancing(),
		Transactions: []Transaction{buy("2024-06-01", "A", 10, 1000)},
	}
	points, _ := ComputeHistory(in, HistoryOptions{Range: OneMonth, Granularity: date.Weekly, Now: d("2025-01-15")})
	if len(points) == 0 {
		t.Fatal("ComputeHistory() returned no points")
	}
	if got, want := points[0].Date, d("2024-12-15"); got != want {
		t.Errorf("first point = %v, want %v", got, want)
	}
	for _, p := range points {
		if p.Value != 1000 || p.Invested != 1000 {
			t.Errorf("point %v = %v/%v, want 1000/1000", p.Date, p.Value, p.Invested)
		}
	}
}

func TestComputeHistory_Deterministic(t *testing.T) {
	in := Inputs{
		Fx:         usdRates(),
		Securities: []Security{{ISIN: "U", Currency: "USD", Prices: series("2025-01-01", 10.3)}},
		Transactions: []Transaction{
			tx("2025-01-01", Buy, "U", 3, -31.7, "USD"),
			tx("2025-01-02", Fee, "", 0, -1.3, "GBP"),
			tx("2025-01-02", Tax, "", 0, -0.7, "CHF"),
		},
	}
	a, _ := ComputeHistory(in, daily("2025-02-15"))
	for i := 0; i < 10; i++ {
		b, _ := ComputeHistory(in, daily("2025-02-15"))
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("ComputeHistory() is not deterministic:\n%s", diff)
		}
	}
	if math.IsNaN(a[len(a)-1].Value) {
		t.Errorf("ComputeHistory() produced NaN")
	}
}

func TestComputeHistory_NoTransactions(t *testing.T) {
	points, ws := ComputeHistory(Inputs{}, daily("2025-01-01"))
	if len(points) != 0 || len(ws) != 0 {
		t.Errorf("ComputeHistory() = %v, %v, want nothing", points, ws)
	}
}
