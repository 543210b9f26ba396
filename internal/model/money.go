package model

import "github.com/shopspring/decimal"

// Money values are kept with two fractional digits at every step.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ClampMoney rounds to minor units and never lets an amount go below zero.
func ClampMoney(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}
