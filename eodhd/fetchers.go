package eodhd

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/date"
	"github.com/shopspring/decimal"
)

// bounds returns the query of a from-to range, both bounds are included in the responses.
func bounds(from, to date.Date) url.Values {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.String())
	}
	if !to.IsZero() {
		q.Set("to", to.String())
	}
	return q
}

type eod struct {
	Date  date.Date       `json:"date"`
	Open  decimal.Decimal `json:"open"`
	Close decimal.Decimal `json:"close"`
}

func (c *Client) eod(ctx context.Context, ticker string, from, to date.Date) ([]eod, error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json
	// [{"date": "2024-02-13", "open": 675.066, "high": 684.219, "low": 648.659, "close": 668.445, "adjusted_close": 67.705, "volume": 0}]
	content := make([]eod, 0)
	if err := c.jwget(ctx, "/eod/"+url.PathEscape(ticker), bounds(from, to), &content); err != nil {
		return nil, err
	}
	return content, nil
}

// Prices returns the daily closes of ticker. The closes are split adjusted.
func (c *Client) Prices(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error) {
	var h date.History[float64]
	content, err := c.eod(ctx, ticker, from, to)
	if err != nil {
		return h, err
	}
	for _, info := range content {
		if v := info.Close.InexactFloat64(); v > 0 {
			h.Append(info.Date, v)
		}
	}
	return h, nil
}

// Forex returns the daily rates of currency for one unit of pivot.
//
// The close of the forex tickers mostly repeats the open, the open of the next day is closer to
// the actual close, so it is used instead.
func (c *Client) Forex(ctx context.Context, pivot, currency string, from, to date.Date) (date.History[float64], error) {
	var h date.History[float64]
	ticker := fmt.Sprintf("%s%s.FOREX", strings.ToUpper(pivot), strings.ToUpper(currency))
	if !from.IsZero() {
		from = from.Add(1)
	}
	if !to.IsZero() {
		to = to.Add(1)
	}
	content, err := c.eod(ctx, ticker, from, to)
	if err != nil {
		return h, err
	}
	for _, info := range content {
		if v := info.Open.InexactFloat64(); v > 0 {
			h.Append(info.Date.Add(-1), v)
		}
	}
	return h, nil
}

// Splits returns the split ratios of ticker, 2 means each share became two.
func (c *Client) Splits(ctx context.Context, ticker string, from, to date.Date) (date.History[float64], error) {
	var h date.History[float64]
	type apiSplit struct {
		Date  date.Date `json:"date"`
		Split string    `json:"split"` // "4.000000/1.000000"
	}
	content := make([]apiSplit, 0)
	if err := c.jwget(ctx, "/splits/"+url.PathEscape(ticker), bounds(from, to), &content); err != nil {
		return h, err
	}
	for _, s := range content {
		num, den, err := parseSplit(s.Split)
		if err != nil {
			return h, err
		}
		h.Append(s.Date, float64(num)/float64(den))
	}
	return h, nil
}

func parseSplit(s string) (num, den int64, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid split format from API: %q", s)
	}
	numDecimal, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numerator in split %q: %w", s, err)
	}
	denDecimal, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid denominator in split %q: %w", s, err)
	}
	if !numDecimal.IsPositive() || !denDecimal.IsPositive() {
		return 0, 0, fmt.Errorf("invalid split %q", s)
	}
	num, den = simplifyDecimalRatio(numDecimal, denDecimal)
	return num, den, nil
}

// simplifyDecimalRatio converts a ratio of decimals into a simplified integer fraction.
func simplifyDecimalRatio(numDecimal, denDecimal decimal.Decimal) (num, den int64) {
	// Scale both by the largest number of fraction digits to get integers.
	exp := max(-numDecimal.Exponent(), -denDecimal.Exponent(), 0)
	multiplier := decimal.New(1, exp)

	numInt := numDecimal.Mul(multiplier).BigInt()
	denInt := denDecimal.Mul(multiplier).BigInt()

	commonDivisor := new(big.Int).GCD(nil, nil, numInt, denInt)
	num = new(big.Int).Div(numInt, commonDivisor).Int64()
	den = new(big.Int).Div(denInt, commonDivisor).Int64()
	return
}

// Dividends returns the dividends per share of ticker, dated on the ex-dividend date.
func (c *Client) Dividends(ctx context.Context, ticker string, from, to date.Date) ([]portfolio.DividendEvent, error) {
	type apiDividend struct {
		Date     date.Date       `json:"date"` // ex-dividend date, see https://eodhd.com/financial-apis/api-splits-dividends
		Value    decimal.Decimal `json:"value"`
		Currency string          `json:"currency"`
	}
	content := make([]apiDividend, 0)
	if err := c.jwget(ctx, "/div/"+url.PathEscape(ticker), bounds(from, to), &content); err != nil {
		return nil, err
	}
	events := make([]portfolio.DividendEvent, 0, len(content))
	for _, d := range content {
		events = append(events, portfolio.DividendEvent{Date: d.Date, Amount: d.Value.InexactFloat64(), Currency: d.Currency})
	}
	return events, nil
}

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code     string `json:"Code"`
	Exchange string `json:"Exchange"`
	Name     string `json:"Name"`
	Type     string `json:"Type"`
	Country  string `json:"Country"`
	Currency string `json:"Currency"`
	ISIN     string `json:"ISIN"`
}

// Ticker returns the EODHD ticker of the result.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches for securities by name, ticker or ISIN.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	var results []SearchResult
	if err := c.jwget(ctx, "/search/"+url.PathEscape(term), nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}
