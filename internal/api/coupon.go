package api

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bazaargo/storefront/internal/domain"
)

type ValidateCouponRequest struct {
	Code     string             `json:"code"`
	Items    []domain.OrderItem `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

// CouponResult is the server's verdict. The client only records the discount
// amount for display; the server recomputes it at order creation.
type CouponResult struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Message  string          `json:"message,omitempty"`
}

func (c *Client) ValidateCoupon(ctx context.Context, req ValidateCouponRequest) (*CouponResult, error) {
	var out CouponResult
	if err := c.post(ctx, "/coupons/validate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
