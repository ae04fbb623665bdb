package portfolio

import (
	"github.com/matkaise/openfolio-sub000/date"
)

// d is a helper for test to create dates from const.
func d(s string) date.Date { return date.MustParse(s) }

// series is a helper for test to create a history from "date", value pairs.
func series(pairs ...any) date.History[float64] {
	var h date.History[float64]
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Append(d(pairs[i].(string)), toFloat(pairs[i+1]))
	}
	return h
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case float64:
		return x
	}
	panic("not a number")
}

func seriesPtr(pairs ...any) *date.History[float64] {
	h := series(pairs...)
	return &h
}

func tx(on string, typ TxType, isin string, shares, amount float64, cur string) Transaction {
	return Transaction{Date: d(on), Type: typ, ISIN: isin, Shares: shares, Amount: amount, Currency: cur}
}

func buy(on, isin string, shares, amount float64) Transaction {
	return tx(on, Buy, isin, shares, -amount, "EUR")
}

func sell(on, isin string, shares, amount float64) Transaction {
	return tx(on, Sell, isin, shares, amount, "EUR")
}

func deposit(on string, amount float64) Transaction {
	return tx(on, Deposit, "", 0, amount, "EUR")
}

// usdRates is a helper for test: one EUR is worth 1.1 USD, then 1.21 USD from 2025-02-01.
func usdRates() FxData {
	return FxData{Base: "EUR", Rates: map[string]*date.History[float64]{
		"USD": seriesPtr("2025-01-01", 1.1, "2025-02-01", 1.21),
	}}
}

// values extracts the values of a history.
func values(points []HistoryPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

// percents extracts the values of a return series.
func percents(points []SeriesPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = float64(p.Value)
	}
	return out
}

func hasWarning(ws []Warning, kind WarningKind, subject string) bool {
	for _, w := range ws {
		if w.Kind == kind && w.Subject == subject {
			return true
		}
	}
	return false
}
