// Package money holds the decimal helpers used for prices and totals.
package money

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ToMinorUnits converts a major-unit amount to the processor's smallest
// currency unit, rounding half away from zero: 25.5 becomes 2550.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Sum adds every value.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Round2 rounds to cents for display of averages.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
