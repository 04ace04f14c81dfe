// Package pricing holds the pure display-price computations shared by the
// catalog and cart layers.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Info describes how a price relates to its MRP for display purposes.
type Info struct {
	HasDiscount     bool
	DiscountPercent int64
	MRP             decimal.Decimal
}

// PriceInfo compares a display price against the MRP. A zero or missing MRP,
// or an MRP at or below the display price, means no discount badge.
func PriceInfo(price, mrp decimal.Decimal) Info {
	if mrp.IsZero() || mrp.LessThanOrEqual(price) {
		return Info{}
	}
	percent := mrp.Sub(price).Div(mrp).Mul(hundred).Round(0)
	return Info{
		HasDiscount:     true,
		DiscountPercent: percent.IntPart(),
		MRP:             mrp,
	}
}

// FormatPrice renders a price without a trailing fractional part when the
// amount is whole currency.
func FormatPrice(v decimal.Decimal) string {
	if v.IsInteger() {
		return v.Truncate(0).String()
	}
	return v.String()
}
