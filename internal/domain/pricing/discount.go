package pricing

import "github.com/shopspring/decimal"

var (
	stepPercent = decimal.RequireFromString("0.5")
	maxPercent  = decimal.NewFromInt(10)
	hundred     = decimal.NewFromInt(100)
)

// DiscountPercent is the loyalty discount for a customer with the given
// number of completed appointments: half a percent each, capped at 10%.
func DiscountPercent(completed int) decimal.Decimal {
	if completed <= 0 {
		return decimal.Zero
	}
	p := stepPercent.Mul(decimal.NewFromInt(int64(completed)))
	if p.GreaterThan(maxPercent) {
		return maxPercent
	}
	return p
}

// ApplyDiscount returns price reduced by percent, rounded half-up to cents.
func ApplyDiscount(price, percent decimal.Decimal) decimal.Decimal {
	factor := hundred.Sub(percent).Div(hundred)
	return price.Mul(factor).Round(2)
}

func TotalPrice(price decimal.Decimal, completed int) decimal.Decimal {
	return ApplyDiscount(price, DiscountPercent(completed))
}
