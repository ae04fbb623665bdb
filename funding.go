package portfolio

import (
	"maps"
	"slices"

	"github.com/matkaise/openfolio-sub000/date"
)

// NormalizeFunding rebuilds the invested capital of an explicit cash history from the observed
// cash balances.
//
// For each currency with a cash account, the external capital at a date is the balance minus the
// cumulative trade, dividend, fee and tax flows in that currency. Its increments between points are
// the contributions, whether a Deposit or Withdrawal was recorded for them or not. Deposits and
// withdrawals in a currency without cash account are kept as recorded.
//
// Without explicit cash history, points are returned unchanged.
func NormalizeFunding(points []HistoryPoint, in Inputs) []HistoryPoint {
	out := slices.Clone(points)
	if !in.HasExplicitCash() || len(points) == 0 {
		return out
	}
	base := in.Base()
	conv := NewConverter(in.Fx)

	accounts := make(map[string][]*date.Cursor[float64])
	for i := range in.CashAccounts {
		a := &in.CashAccounts[i]
		accounts[a.Currency] = append(accounts[a.Currency], a.Balances.Cursor())
	}
	currencies := slices.Sorted(maps.Keys(accounts))

	txs := cashOrder(in.Transactions)
	next := 0
	internal := make(map[string]float64) // cumulative non external flows per currency
	external := make(map[string]float64) // previous external capital per currency
	var unaccounted, invested float64

	for i, p := range out {
		for ; next < len(txs) && !txs[next].Date.After(p.Date); next++ {
			tx := txs[next]
			_, tracked := accounts[tx.Currency]
			switch {
			case tx.Type == Split:
			case !tracked && tx.Type.IsExternal():
				unaccounted += conv.Convert(tx.Amount, tx.Currency, base, tx.Date)
			case tracked && !tx.Type.IsExternal():
				internal[tx.Currency] += tx.Amount
			}
		}
		for _, cur := range currencies {
			var balance float64
			for _, c := range accounts[cur] {
				if b, ok := c.AsOf(p.Date); ok {
					balance += b
				}
			}
			e := balance - internal[cur]
			invested += conv.Convert(e-external[cur], cur, base, p.Date)
			external[cur] = e
		}
		out[i].Invested = invested + unaccounted
	}
	return out
}
