package portfolio

import (
	"fmt"
	"math"
)

// Percent is a percentage, 12.5 means 12.5%.
type Percent float64

// Equal compares two percentages with a precision of 1e-4.
func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < 0.0001
}

// Ratio returns the percentage as a fraction.
func (p Percent) Ratio() float64 { return float64(p) / 100 }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString returns the percentage with its sign, 0 is represented as "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
