package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds to cents, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

// Percent returns amount% of d without rounding.
func Percent(d, amount decimal.Decimal) decimal.Decimal {
	return d.Mul(amount.Div(hundred))
}
