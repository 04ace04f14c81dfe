package domain

import "github.com/shopspring/decimal"

// CartLine is one entry in the cart. The product snapshot is denormalized at
// add time.
type CartLine struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	VariantID string  `json:"variant_id,omitempty"`
}

// LineKey identifies a cart line. VariantID is part of the key so two
// variants sharing a display size/color pair never collide on one line.
type LineKey struct {
	ProductID int64
	Size      string
	Color     string
	VariantID string
}

func (l CartLine) Key() LineKey {
	return LineKey{
		ProductID: l.Product.ID,
		Size:      l.Size,
		Color:     l.Color,
		VariantID: l.VariantID,
	}
}

// Totals is derived from the line list on every read, never stored.
type Totals struct {
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal // display-only, from the applied coupon
	CODFee    decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// AppliedCoupon holds the server-computed discount for the current session.
// It is never persisted and is dropped on any cart mutation.
type AppliedCoupon struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Message  string          `json:"message,omitempty"`
}
