package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDiscountPercent(t *testing.T) {
	cases := []struct {
		completed int
		want      string
	}{
		{-3, "0"},
		{0, "0"},
		{1, "0.5"},
		{6, "3"},
		{19, "9.5"},
		{20, "10"},
		{500, "10"},
	}

	for _, tc := range cases {
		assert.True(t, dec(tc.want).Equal(DiscountPercent(tc.completed)),
			"completed=%d got %s", tc.completed, DiscountPercent(tc.completed))
	}
}

func TestDiscountPercentBoundedAndMonotonic(t *testing.T) {
	prev := decimal.Zero
	for n := 0; n <= 100; n++ {
		p := DiscountPercent(n)
		assert.False(t, p.IsNegative())
		assert.True(t, p.LessThanOrEqual(decimal.NewFromInt(10)))
		assert.True(t, p.GreaterThanOrEqual(prev), "not monotonic at %d", n)
		prev = p
	}
}

func TestTotalPrice(t *testing.T) {
	assert.Equal(t, "194.00", TotalPrice(dec("200"), 6).StringFixed(2))
	assert.Equal(t, "500.00", TotalPrice(dec("500"), 0).StringFixed(2))
	assert.Equal(t, "900.00", TotalPrice(dec("1000"), 40).StringFixed(2))
}

func TestApplyDiscountRoundsHalfUp(t *testing.T) {
	// 0.5% of 1.01 leaves 1.00495, rounds to 1.00
	assert.Equal(t, "1.00", ApplyDiscount(dec("1.01"), dec("0.5")).StringFixed(2))
	// 3% of 0.50 leaves 0.485, rounds up to 0.49
	assert.Equal(t, "0.49", ApplyDiscount(dec("0.50"), dec("3")).StringFixed(2))
	assert.Equal(t, "99.99", ApplyDiscount(dec("99.99"), decimal.Zero).StringFixed(2))
}
