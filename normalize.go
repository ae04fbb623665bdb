package portfolio

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/matkaise/openfolio-sub000/date"
)

// RawTransaction is a transaction as produced by importers and manual entry.
//
// The share count may come as "shares" or "quantity", and the amount sign is not trusted.
type RawTransaction struct {
	ID          string   `json:"id,omitempty"`
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	ISIN        string   `json:"isin,omitempty"`
	Shares      *float64 `json:"shares,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency,omitempty"`
	PortfolioID string   `json:"portfolioId,omitempty"`
}

// transactionNamespace scopes the ids generated for transactions that come without one.
var transactionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matkaise/openfolio/transaction"))

// Normalize converts a raw transaction into a Transaction that follows the signed amount convention.
func (r RawTransaction) Normalize(defaultCurrency string) (Transaction, error) {
	on, err := date.Parse(strings.TrimSpace(r.Date))
	if err != nil {
		return Transaction{}, err
	}
	typ, err := ParseTxType(r.Type)
	if err != nil {
		return Transaction{}, err
	}
	tx := Transaction{
		ID:          r.ID,
		Date:        on,
		Type:        typ,
		ISIN:        strings.ToUpper(strings.TrimSpace(r.ISIN)),
		Currency:    strings.ToUpper(strings.TrimSpace(r.Currency)),
		PortfolioID: r.PortfolioID,
	}
	switch {
	case r.Shares != nil:
		tx.Shares = *r.Shares
	case r.Quantity != nil:
		tx.Shares = *r.Quantity
	}
	// A split keeps its ratio as is, an invalid one is rejected by the timeline.
	if typ != Split {
		tx.Shares = math.Abs(tx.Shares)
	}
	if tx.Currency == "" {
		tx.Currency = defaultCurrency
	}
	switch {
	case typ == Split:
		tx.Amount = 0
	case typ.IsOutflow():
		tx.Amount = -math.Abs(r.Amount)
	default:
		tx.Amount = math.Abs(r.Amount)
	}
	if (typ == Buy || typ == Sell || typ == Split) && tx.ISIN == "" {
		return Transaction{}, fmt.Errorf("%s without isin", typ)
	}
	if tx.ID == "" {
		key := fmt.Sprintf("%s|%s|%s|%g|%g|%s|%s", tx.Date, tx.Type, tx.ISIN, tx.Shares, tx.Amount, tx.Currency, tx.PortfolioID)
		tx.ID = uuid.NewSHA1(transactionNamespace, []byte(key)).String()
	}
	return tx, nil
}

// NormalizeTransactions normalizes all raw transactions and sorts them chronologically.
//
// Invalid records are skipped and reported together in the returned error, the valid ones are
// still returned.
func NormalizeTransactions(raw []RawTransaction, defaultCurrency string) ([]Transaction, error) {
	txs := make([]Transaction, 0, len(raw))
	var errs []error
	for i, r := range raw {
		tx, err := r.Normalize(defaultCurrency)
		if err != nil {
			errs = append(errs, fmt.Errorf("transaction #%d (%s): %w", i+1, r.ID, err))
			continue
		}
		txs = append(txs, tx)
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })
	return txs, errors.Join(errs...)
}
