package portfolio

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount rounded for display in its currency.
//
// The engine computes with float64, Money is only used to present the results.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns the Money for value in currency.
func M(value float64, currency string) Money {
	return Money{value: decimal.NewFromFloat(value), cur: currency}
}

// currency returns the money's currency, nil when the code is not known.
func (m Money) currency() *money.Currency { return money.GetCurrency(m.cur) }

// Rounded returns the value rounded to the fraction digits of the currency.
func (m Money) Rounded() decimal.Decimal {
	fraction := int32(2)
	if c := m.currency(); c != nil {
		fraction = int32(c.Fraction)
	}
	return m.value.Round(fraction)
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	if cur == nil {
		return fmt.Sprintf("%s %s", m.Rounded().StringFixed(2), m.cur)
	}
	dec := m.Rounded().Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as "-".
func (m Money) SignedString() string {
	if m.Rounded().IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string { return m.cur }
func (m Money) IsZero() bool     { return m.Rounded().IsZero() }
func (m Money) IsNegative() bool { return m.Rounded().IsNegative() }
