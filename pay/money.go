/*
money.go - Exact cent arithmetic

PURPOSE:
  Every pay amount is an int64 cent count. Multiplications (hours x rate,
  days x rate) run through shopspring/decimal and are rounded half-up to the
  nearest cent at the point of multiplication. Fractional cents are never
  carried across sessions or line items.

ROUNDING:
  decimal.Round rounds half away from zero. Pay quantities here are always
  non-negative, so that is exactly half-up: 41667.5 -> 41668, never 41667.
*/
package pay

import "github.com/shopspring/decimal"

// MulCents multiplies a quantity (hours, days) by a cent rate and rounds
// half-up to the nearest cent.
func MulCents(qty decimal.Decimal, rateCents int64) int64 {
	return qty.Mul(decimal.NewFromInt(rateCents)).Round(0).IntPart()
}

// MulCentsScaled is MulCents with an extra multiplier (e.g. the 1.5 overtime
// factor), rounded once after the full product.
func MulCentsScaled(qty decimal.Decimal, rateCents int64, scale decimal.Decimal) int64 {
	return qty.Mul(decimal.NewFromInt(rateCents)).Mul(scale).Round(0).IntPart()
}

// ProrateCents scales an amount by elapsed/total days, rounded half-up.
func ProrateCents(amountCents int64, elapsed, total int) int64 {
	if total <= 0 || elapsed >= total {
		return amountCents
	}
	if elapsed <= 0 {
		return 0
	}
	return decimal.NewFromInt(amountCents).
		Mul(decimal.NewFromInt(int64(elapsed))).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).IntPart()
}
