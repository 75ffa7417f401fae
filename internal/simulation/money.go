package simulation

import "github.com/shopspring/decimal"

// Quantize rounds a money value to 2 decimal places, half away from zero
// (conventional currency rounding, not banker's rounding). Every monetary
// value the engine produces passes through here before being stored or
// compared, so balances and payments never drift off the 2-decimal lattice.
func Quantize(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// money renders a quantized amount as a fixed 2-decimal string for output.
func money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
