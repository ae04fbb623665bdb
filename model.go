package portfolio

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matkaise/openfolio-sub000/date"
)

// epsilon is the tolerance under which a quantity or an amount is considered to be zero.
const epsilon = 1e-6

// DefaultPivot is the currency all FX rate tables are expressed against.
const DefaultPivot = "EUR"

// TxType is the kind of a Transaction.
type TxType string

const (
	Buy        TxType = "Buy"
	Sell       TxType = "Sell"
	Dividend   TxType = "Dividend"
	Tax        TxType = "Tax"
	Fee        TxType = "Fee"
	Deposit    TxType = "Deposit"
	Withdrawal TxType = "Withdrawal"
	Split      TxType = "Split"
)

// ErrUnknownTxType is returned when a transaction type cannot be recognized.
var ErrUnknownTxType = errors.New("unknown transaction type")

// ParseTxType parses a transaction type. It is case insensitive and accepts the savings plan
// spellings found in broker exports as a Buy.
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "sparplan_buy", "sparplan-buy", "sparplan", "savingsplan", "savings_plan":
		return Buy, nil
	case "sell":
		return Sell, nil
	case "dividend":
		return Dividend, nil
	case "tax", "taxes":
		return Tax, nil
	case "fee", "fees":
		return Fee, nil
	case "deposit":
		return Deposit, nil
	case "withdrawal", "withdraw":
		return Withdrawal, nil
	case "split":
		return Split, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownTxType, s)
	}
}

// IsOutflow reports whether the transaction takes cash out of the portfolio cash.
func (t TxType) IsOutflow() bool {
	switch t {
	case Buy, Fee, Tax, Withdrawal:
		return true
	}
	return false
}

// IsExternal reports whether the transaction moves capital across the portfolio boundary.
func (t TxType) IsExternal() bool { return t == Deposit || t == Withdrawal }

// Transaction is an immutable historical fact.
//
// Amount follows the signed convention: negative for Buy, Fee, Tax and Withdrawal, positive for
// Sell, Dividend and Deposit. For a Split, Shares holds the split ratio.
type Transaction struct {
	ID          string    `json:"id"`
	Date        date.Date `json:"date"`
	Type        TxType    `json:"type"`
	ISIN        string    `json:"isin,omitempty"`
	Shares      float64   `json:"shares,omitempty"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	PortfolioID string    `json:"portfolioId,omitempty"`
}

// DividendEvent is a past or announced dividend payment per share.
type DividendEvent struct {
	Date     date.Date `json:"date"`
	Amount   float64   `json:"amount"`
	Currency string    `json:"currency,omitempty"`
}

// Security is an instrument known to the project.
//
// Prices are back-adjusted for all splits, they are expressed in today's share count.
type Security struct {
	ISIN              string                `json:"isin"`
	Name              string                `json:"name,omitempty"`
	Currency          string                `json:"currency"`
	Ticker            string                `json:"ticker,omitempty"` // market data provider symbol, e.g. "MCD.US"
	Prices            date.History[float64] `json:"priceHistory"`
	Splits            date.History[float64] `json:"splits"`
	Dividends         []DividendEvent       `json:"dividendHistory,omitempty"`
	UpcomingDividends []DividendEvent       `json:"upcomingDividends,omitempty"`
}

// CashAccount holds the end of day balances of a cash account.
type CashAccount struct {
	ID          string                `json:"id"`
	Currency    string                `json:"currency"`
	PortfolioID string                `json:"portfolioId,omitempty"`
	Balances    date.History[float64] `json:"balanceHistory"`
}

// FxData holds the rate tables, each rate is the number of units of a currency for one unit of Base.
type FxData struct {
	Base  string                           `json:"base"`
	Rates map[string]*date.History[float64] `json:"rates"`
}

// Inputs gathers everything the engine reads.
type Inputs struct {
	BaseCurrency string
	Transactions []Transaction
	Securities   []Security
	CashAccounts []CashAccount
	Fx           FxData
	Benchmarks   []Benchmark
}

// Base returns the reporting currency, the pivot currency if none was set.
func (in Inputs) Base() string {
	if in.BaseCurrency != "" {
		return in.BaseCurrency
	}
	if in.Fx.Base != "" {
		return in.Fx.Base
	}
	return DefaultPivot
}

// Security returns the security with that ISIN or nil.
func (in Inputs) Security(isin string) *Security {
	for i := range in.Securities {
		if in.Securities[i].ISIN == isin {
			return &in.Securities[i]
		}
	}
	return nil
}

// Benchmark returns the benchmark by name, or a benchmark built on a known security.
func (in Inputs) Benchmark(name string) (*Benchmark, bool) {
	for i := range in.Benchmarks {
		if strings.EqualFold(in.Benchmarks[i].Name, name) {
			return &in.Benchmarks[i], true
		}
	}
	if s := in.Security(name); s != nil {
		return &Benchmark{Name: s.ISIN, Currency: s.Currency, Prices: s.Prices}, true
	}
	return nil, false
}

// Inception returns the date of the first transaction, or the zero date if there is none.
func (in Inputs) Inception() date.Date {
	var first date.Date
	for _, tx := range in.Transactions {
		if first.IsZero() || tx.Date.Before(first) {
			first = tx.Date
		}
	}
	return first
}

// HasExplicitCash reports whether at least one cash account carries a balance history.
func (in Inputs) HasExplicitCash() bool {
	for _, a := range in.CashAccounts {
		if a.Balances.Len() > 0 {
			return true
		}
	}
	return false
}

// ForPortfolios returns the inputs restricted to the given portfolio ids.
//
// Transactions and cash accounts without a portfolio id belong to every portfolio.
// With no ids, in is returned unchanged.
func (in Inputs) ForPortfolios(ids ...string) Inputs {
	if len(ids) == 0 {
		return in
	}
	keep := func(id string) bool { return id == "" || slices.Contains(ids, id) }
	out := in
	out.Transactions = nil
	for _, tx := range in.Transactions {
		if keep(tx.PortfolioID) {
			out.Transactions = append(out.Transactions, tx)
		}
	}
	out.CashAccounts = nil
	for _, a := range in.CashAccounts {
		if keep(a.PortfolioID) {
			out.CashAccounts = append(out.CashAccounts, a)
		}
	}
	return out
}

// HistoryPoint is the state of the portfolio at a date, in base currency.
//
// Invested is the external capital contributed so far, not the cost basis of the holdings.
type HistoryPoint struct {
	Date     date.Date `json:"date"`
	Value    float64   `json:"value"`
	Invested float64   `json:"invested"`
	Dividend float64   `json:"dividend"`
}

// SeriesPoint is a cumulative percentage at a date.
type SeriesPoint struct {
	Date  date.Date `json:"date"`
	Value Percent   `json:"value"`
}
