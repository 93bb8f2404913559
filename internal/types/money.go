package types

import "github.com/shopspring/decimal"

// All monetary arithmetic goes through shopspring/decimal so the cents
// boundary never accumulates binary floating-point error. These helpers
// are the only rounding and formatting call sites.

// FormatAmount renders a monetary amount as a fixed-point string with
// two digits, the shape every public price field uses
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// RoundCents rounds half-up at the cent, used for discount amounts
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CeilCents rounds up at the cent. Tax amounts always round in favor of
// the jurisdiction, so 1.924125 becomes 1.93
func CeilCents(d decimal.Decimal) decimal.Decimal {
	return d.Mul(decimal.NewFromInt(100)).Ceil().Div(decimal.NewFromInt(100))
}

// MaxDecimal returns the larger of a and b
func MaxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// MinDecimal returns the smaller of a and b
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
